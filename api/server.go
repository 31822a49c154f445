package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/masterblog"
)

// Config holds the API server settings.
type Config struct {
	Addr        string        // Listen address (default ":5002")
	CacheTTL    time.Duration // List cache TTL (default 5s, negative disables)
	WriteLimit  int           // Writes per client IP per WriteWindow (default 60)
	WriteWindow time.Duration // (default 1m)

	LogFile string
	Debug   bool
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":5002"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Second
	}
	if c.WriteLimit == 0 {
		c.WriteLimit = 60
	}
	if c.WriteWindow == 0 {
		c.WriteWindow = time.Minute
	}
}

// Server is the posts API.
type Server struct {
	Config Config
	Echo   *echo.Echo
	Store  Store
	Cache  *PostCache

	writeLimiter *RateLimiter
}

// NewServer wires middleware and routes around store.
func NewServer(cfg Config, store Store) *Server {
	cfg.setDefaults()

	s := &Server{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        store,
		Cache:        NewPostCache(store, cfg.CacheTTL),
		writeLimiter: NewRateLimiter(cfg.WriteLimit, cfg.WriteWindow),
	}
	e := s.Echo
	e.HideBanner = true
	e.Logger = masterblog.NewLogger(masterblog.LogConfig{Prefix: "masterblog-api", File: cfg.LogFile, Debug: cfg.Debug})
	e.Validator = &requestValidator{v: validator.New()}
	e.HTTPErrorHandler = s.httpErrorHandler

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	e := s.Echo
	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(s.writeLimit)
}

func (s *Server) setupRoutes() {
	g := s.Echo.Group("/api")
	g.GET("/posts", s.handleList)
	g.POST("/posts", s.handleCreate)
	g.GET("/posts/search", s.handleSearch)
	g.GET("/posts/:id", s.handleGet)
	g.PUT("/posts/:id", s.handleUpdate)
	g.DELETE("/posts/:id", s.handleDelete)

	s.Echo.FileFS("/static/masterblog.json", "static/masterblog.json", docsFS)
	g.FileFS("/docs", "static/docs.html", docsFS)
	g.FileFS("/docs/", "static/docs.html", docsFS)
}

// writeLimit rate-limits mutating requests per client IP.
func (s *Server) writeLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.writeLimiter.Allow(c.RealIP()) {
				return jsonError(c, http.StatusTooManyRequests, "Too many requests")
			}
		}
		return next(c)
	}
}

// Start serves until the server is closed.
func (s *Server) Start() error {
	s.Echo.Logger.Infof("posts API listening on %s", s.Config.Addr)
	if err := s.Echo.Start(s.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, the limiter and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close releases the limiter and the store without touching the listener.
// Use it when Start fails.
func (s *Server) Close() error {
	s.writeLimiter.Close()
	return s.Store.Close()
}

func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code < 500 {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	_ = jsonError(c, code, msg)
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}
