package masterblog

import "embed"

// EmbeddedAssets holds the stylesheet served at /public/masterblog.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
