package masterblog

import "time"

// SiteConfig holds all configuration for the web front-end.
type SiteConfig struct {
	Name string // Site name (default "Masterblog")
	Addr string // Listen address (default ":3000")

	// APIBaseURL is the posts API used until a visitor sets their own
	// (default DefaultBaseURL).
	APIBaseURL     string
	RequestTimeout time.Duration // Per-request API timeout (default 10s)

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// HTMXScript is the htmx script URL. Empty serves plain HTML forms.
	HTMXScript string

	LogFile string // Rotated log file; empty logs to stderr
	Debug   bool
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Masterblog"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	c.APIBaseURL = NormalizeBaseURL(c.APIBaseURL)
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory served under /public (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithPostAPI replaces the HTTP client used to reach the posts API.
func WithPostAPI(api PostAPI) Option {
	return func(a *App) {
		a.API = api
	}
}
