// Package render prints model replies and progress to the terminal.
package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	maxWidth     = 120
)

// Width returns the wrap width for f: the terminal width capped at 120,
// or 80 when f is not a terminal.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return min(w, maxWidth)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Markdown renders md for display. Styled output is used when styled is set,
// glamour's plain "notty" style otherwise. Rendering errors fall back to the
// raw text.
func Markdown(md string, width int, styled bool) string {
	if width <= 0 {
		width = defaultWidth
	}

	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return plain(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return plain(md)
	}
	return out
}

func plain(md string) string {
	return strings.TrimSpace(md) + "\n"
}
