package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
	"github.com/eringen/masterblog/api"
	"github.com/eringen/masterblog/api/jsonstore"
	"github.com/eringen/masterblog/api/pgstore"
	"github.com/eringen/masterblog/api/sqlitestore"
)

const shutdownTimeout = 10 * time.Second

var serveWebCmd = &cobra.Command{
	Use:   "serve-web",
	Short: "Serve the web front-end",
	Long: `Serve the web front-end. Settings come from the environment:

  SITE_NAME           page title (default "Masterblog")
  ADDR                listen address (default ":3000")
  API_BASE_URL        API used until a visitor picks another
  SESSION_SECRET      required, signs the preferences cookie
  COOKIE_SECURE       "true" behind HTTPS
  HTMX_SCRIPT         htmx script URL, its origin is allowed by the CSP; unset serves plain forms
  LOG_FILE            rotated log file instead of stderr
  DEBUG               "true" for debug logging`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := masterblog.SiteConfig{
			Name:          masterblog.EnvOr("SITE_NAME", "Masterblog"),
			Addr:          masterblog.EnvOr("ADDR", ":3000"),
			APIBaseURL:    masterblog.EnvOr("API_BASE_URL", masterblog.DefaultBaseURL),
			SessionSecret: masterblog.MustEnv("SESSION_SECRET"),
			CookieSecure:  masterblog.EnvOr("COOKIE_SECURE", "") == "true",
			HTMXScript:    masterblog.EnvOr("HTMX_SCRIPT", ""),
			LogFile:       masterblog.EnvOr("LOG_FILE", ""),
			Debug:         debug || masterblog.EnvOr("DEBUG", "") == "true",
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}
		app := masterblog.New(cfg)

		errc := make(chan error, 1)
		go func() { errc <- app.Start() }()
		select {
		case err := <-errc:
			return err
		case <-cmd.Context().Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Shutdown(ctx)
	},
}

var serveAPICmd = &cobra.Command{
	Use:   "serve-api",
	Short: "Serve the posts API",
	Long: `Serve the JSON posts API under /api/posts.

--store picks the backend:
  postgres://...   PostgreSQL
  *.json           a JSON file, seeded when missing
  anything else    a SQLite database path (default data/posts.db)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("store")
		addr, _ := cmd.Flags().GetString("addr")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		logFile, _ := cmd.Flags().GetString("log-file")

		store, err := openStore(cmd.Context(), dsn)
		if err != nil {
			return err
		}
		srv := api.NewServer(api.Config{
			Addr:     addr,
			CacheTTL: ttl,
			LogFile:  logFile,
			Debug:    debug,
		}, store)

		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()
		select {
		case err := <-errc:
			srv.Close()
			return err
		case <-cmd.Context().Done():
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

// openStore maps a --store value to a backend.
func openStore(ctx context.Context, dsn string) (api.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return pgstore.New(ctx, dsn)
	case strings.HasSuffix(dsn, ".json"):
		return jsonstore.New(dsn)
	case dsn == "":
		return nil, fmt.Errorf("--store must not be empty")
	default:
		return sqlitestore.New(dsn)
	}
}

func init() {
	serveAPICmd.Flags().String("store", masterblog.EnvOr("STORE", "data/posts.db"), "postgres URL, JSON file or SQLite path")
	serveAPICmd.Flags().String("addr", masterblog.EnvOr("ADDR", ":5002"), "listen address")
	serveAPICmd.Flags().Duration("cache-ttl", 5*time.Second, "list cache TTL, negative disables")
	serveAPICmd.Flags().String("log-file", "", "rotated log file instead of stderr")

	rootCmd.AddCommand(serveWebCmd, serveAPICmd)
}
