package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
	"github.com/eringen/masterblog/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the saved API base URL",
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Save the API base URL and list its posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewFileStore(configPath)
		if err != nil {
			return err
		}
		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := masterblog.NewPostSync(newClient(), store, view)
		if err != nil {
			return err
		}
		if err := flow.SetBaseURL(args[0]); err != nil {
			return err
		}
		view.ok("Saved " + flow.BaseURL() + " to " + store.Path())
		return shown(flow.List(cmd.Context()))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the API base URL in use and where it is saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewFileStore(configPath)
		if err != nil {
			return err
		}
		saved, err := store.Load()
		if err != nil {
			return err
		}
		effective := masterblog.NormalizeBaseURL(saved)
		if apiURL != "" {
			effective = masterblog.NormalizeBaseURL(apiURL)
		}
		fmt.Printf("%s %s\n", titleStyle.Render("api_base_url:"), effective)
		fmt.Printf("%s %s\n", titleStyle.Render("config file: "), store.Path())
		if os.Getenv(settings.EnvBaseURL) != "" {
			fmt.Println(mutedStyle.Render("(overridden by " + settings.EnvBaseURL + ")"))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetURLCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
