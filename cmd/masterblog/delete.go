package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a post and print the refreshed list",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := newFlow(view)
		if err != nil {
			return err
		}
		return shown(flow.Delete(cmd.Context(), masterblog.PostID(args[0])))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
