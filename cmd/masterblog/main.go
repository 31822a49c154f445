// Command masterblog manages posts on a blog API from the terminal and
// serves the web front-end and the posts API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
	"github.com/eringen/masterblog/settings"
)

// version is set at build time via ldflags.
var version = "dev"

// errShown marks a failure the view already reported.
var errShown = errors.New("already reported")

var (
	configPath string
	apiURL     string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "masterblog",
	Short: "Manage blog posts on a Masterblog API",
	Long: `masterblog lists, creates, updates and deletes posts on a blog API.

The API base URL is saved in a config file (see "masterblog config show")
and can be overridden per run with --api-url or the MASTERBLOG_API_BASE_URL
environment variable. After every successful change the full list is
fetched and printed again.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/masterblog/config.toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL for this run only")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log requests and failures to stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errShown) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}

// newFlow builds the sync flow for one command run. --api-url wins over
// the saved value without being written back.
func newFlow(view masterblog.View, opts ...masterblog.SyncOption) (*masterblog.PostSync, error) {
	var store masterblog.ConfigStore
	if apiURL != "" {
		store = masterblog.NewMemoryConfigStore(apiURL)
	} else {
		file, err := settings.NewFileStore(configPath)
		if err != nil {
			return nil, err
		}
		store = file
	}
	if debug {
		logger := masterblog.NewLogger(masterblog.LogConfig{Prefix: "masterblog", Debug: true})
		opts = append([]masterblog.SyncOption{masterblog.WithLogger(logger)}, opts...)
	}
	return masterblog.NewPostSync(newClient(), store, view, opts...)
}

func newClient() *masterblog.Client {
	return masterblog.NewClient(masterblog.WithUserAgent("masterblog-cli/" + version))
}

// shown converts a flow error into errShown; the view printed it already.
func shown(err error) error {
	if err == nil {
		return nil
	}
	return errShown
}
