// Package masterblog is a front-end for a blog-post CRUD API built with Go,
// Echo, and templ. It lists, creates, updates and deletes posts on a
// configurable API, re-fetching the whole list after every change.
//
// PostSync holds the flow; App serves it as a web page, and the masterblog
// command drives the same flow from a terminal.
package masterblog

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/masterblog/views"
)

// App is the web front-end. It wires the API client, sessions, handlers and
// middleware together.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	API    PostAPI

	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.Logger = NewLogger(LogConfig{Prefix: "masterblog", File: cfg.LogFile, Debug: cfg.Debug})

	for _, opt := range opts {
		opt(a)
	}
	if a.API == nil {
		a.API = NewClient(WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	}

	return a
}

// Setup validates the configuration and installs middleware and routes.
// Start calls it; tests call it directly and serve a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("masterblog: SessionSecret is required")
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is closed.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving on %s, default API %s", a.Config.Addr, a.Config.APIBaseURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// The bundled stylesheet falls through to the user's static dir for
	// everything else under /public/.
	embedded, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/masterblog.css", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embedded)))))
	e.Static("/public", a.staticDir)

	e.GET("/", a.handleHome)
	e.POST("/config/", a.handleConfig)
	e.GET("/search/", a.handleSearch)

	e.POST("/posts/", a.handleCreate)
	e.GET("/posts/:id/edit/", a.handleEdit)
	e.POST("/posts/:id/", a.handleUpdate)
	e.PUT("/posts/:id/", a.handleUpdate)
	e.POST("/posts/:id/delete/", a.handleDelete)
	e.DELETE("/posts/:id/", a.handleDelete)
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:       a.Config.Name,
		HTMXScript: a.Config.HTMXScript,
	}
}
