package main

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/eringen/masterblog"
)

// huhPrompter asks on the terminal. Esc or Ctrl-C cancels, and so does a
// stdin that is not a terminal.
type huhPrompter struct{}

func (huhPrompter) Prompt(label, initial string) (string, bool) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", false
	}
	value := initial
	var err error
	if label == masterblog.PromptContent {
		err = huh.NewText().Title(label).Value(&value).Run()
	} else {
		err = huh.NewInput().Title(label).Value(&value).Run()
	}
	if err != nil {
		return "", false
	}
	return value, true
}

// flagPrompter answers from command-line flags and falls back to next for
// labels without a flag value.
type flagPrompter struct {
	values map[string]string
	next   masterblog.Prompter
}

func (p flagPrompter) Prompt(label, initial string) (string, bool) {
	if v, ok := p.values[label]; ok {
		return v, true
	}
	return p.next.Prompt(label, initial)
}
