package main

import (
	"os"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Add a post and print the refreshed list",
	Example: `  masterblog create --title "Hello" --content "First words"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")

		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := newFlow(view)
		if err != nil {
			return err
		}
		return shown(flow.Create(cmd.Context(), title, content))
	},
}

func init() {
	createCmd.Flags().StringP("title", "t", "", "post title")
	createCmd.Flags().StringP("content", "c", "", "post content")
	rootCmd.AddCommand(createCmd)
}
