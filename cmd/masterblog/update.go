package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/masterblog"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a post's title and content",
	Long: `Edit a post. Without flags you are prompted for the new title and
content, pre-filled with the current values; Esc or Ctrl-C cancels and
nothing is sent. --title and --content skip their prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]string{}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			values[masterblog.PromptTitle] = v
		}
		if cmd.Flags().Changed("content") {
			v, _ := cmd.Flags().GetString("content")
			values[masterblog.PromptContent] = v
		}
		prompter := flagPrompter{values: values, next: huhPrompter{}}

		view := &termView{out: os.Stdout, errOut: os.Stderr}
		flow, err := newFlow(view, masterblog.WithPrompter(prompter))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		id := masterblog.PostID(args[0])
		current, err := newClient().GetPost(ctx, flow.BaseURL(), id)
		if err != nil {
			view.Alert(masterblog.ServerMessage(err, "Failed to load post."))
			return errShown
		}

		err = flow.Update(ctx, current)
		if errors.Is(err, masterblog.ErrCanceled) {
			view.ok("Update canceled.")
			return nil
		}
		return shown(err)
	},
}

func init() {
	updateCmd.Flags().StringP("title", "t", "", "new title")
	updateCmd.Flags().StringP("content", "c", "", "new content")
	rootCmd.AddCommand(updateCmd)
}
