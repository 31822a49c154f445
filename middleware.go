package masterblog

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// prefsSession holds per-browser preferences, the server-side stand-in for
// browser local storage.
const prefsSession = "masterblog_prefs"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

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

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy(a.Config.HTMXScript),
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public")
		},
	}))

	e.Use(cacheControlMiddleware)
}

// cacheControlMiddleware keeps every page uncached: the list must always be
// the latest fetch.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/public/") {
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// SessionConfigStore keeps the base URL in the visitor's preferences cookie.
type SessionConfigStore struct {
	c        echo.Context
	fallback string
}

// NewSessionConfigStore binds a store to one request. fallback is returned
// while the visitor has not chosen a base URL.
func NewSessionConfigStore(c echo.Context, fallback string) *SessionConfigStore {
	return &SessionConfigStore{c: c, fallback: fallback}
}

func (s *SessionConfigStore) Load() (string, error) {
	sess, err := session.Get(prefsSession, s.c)
	if err != nil {
		return s.fallback, nil
	}
	if v, ok := sess.Values[ConfigKey].(string); ok && v != "" {
		return v, nil
	}
	return s.fallback, nil
}

func (s *SessionConfigStore) Save(baseURL string) error {
	// A cookie that no longer decodes still yields a fresh session to write.
	sess, err := session.Get(prefsSession, s.c)
	if sess == nil {
		return err
	}
	sess.Values[ConfigKey] = baseURL
	return sess.Save(s.c.Request(), s.c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// contentSecurityPolicy allows scripts from the app itself and from the
// origin of an absolute htmx script URL.
func contentSecurityPolicy(htmxScript string) string {
	scripts := "'self'"
	if u, err := url.Parse(htmxScript); err == nil && u.Host != "" && (u.Scheme == "https" || u.Scheme == "http") {
		scripts += " " + u.Scheme + "://" + u.Host
	}
	return "default-src 'self'; script-src " + scripts + "; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'"
}
