package main

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/eringen/masterblog"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	idStyle      = lipgloss.NewStyle().Faint(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// termView prints the list to out and alerts to errOut.
type termView struct {
	out    io.Writer
	errOut io.Writer
}

func (v *termView) ShowPosts(posts []masterblog.Post) {
	for _, p := range posts {
		fmt.Fprintln(v.out, card(p))
	}
}

func (v *termView) ShowEmpty() {
	fmt.Fprintln(v.out, mutedStyle.Render(masterblog.EmptyPlaceholder))
}

func (v *termView) ShowListError(err error) {
	fmt.Fprintln(v.errOut, errorStyle.Render("Error: "+sanitize(err.Error())))
}

func (v *termView) Alert(msg string) {
	fmt.Fprintln(v.errOut, errorStyle.Render("✖ "+sanitize(msg)))
}

func (v *termView) ok(msg string) {
	fmt.Fprintln(v.out, successStyle.Render("✔ "+msg))
}

func card(p masterblog.Post) string {
	lines := []string{
		titleStyle.Render(sanitize(p.Title)) + " " + idStyle.Render("#"+sanitize(p.ID.String())),
		sanitize(p.Content),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// sanitize drops escape sequences and control characters from server text
// so a post cannot move the cursor or recolor the terminal. Newlines and
// tabs are kept.
func sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
}
