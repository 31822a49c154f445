package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print every post",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := newFlow(view)
		if err != nil {
			return err
		}
		return shown(flow.List(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
