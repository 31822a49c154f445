package api

import "embed"

// docsFS holds the OpenAPI document and the Swagger UI page that loads it.
//
//go:embed static/*
var docsFS embed.FS
