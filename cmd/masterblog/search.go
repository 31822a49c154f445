package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Print posts whose title or content contain the given text",
	Long: `Search is case-insensitive. When both --title and --content are given a
post must match both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var q masterblog.SearchQuery
		q.Title, _ = cmd.Flags().GetString("title")
		q.Content, _ = cmd.Flags().GetString("content")

		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := newFlow(view)
		if err != nil {
			return err
		}
		return shown(flow.Search(cmd.Context(), q))
	},
}

func init() {
	searchCmd.Flags().StringP("title", "t", "", "text the title must contain")
	searchCmd.Flags().StringP("content", "c", "", "text the content must contain")
	rootCmd.AddCommand(searchCmd)
}
