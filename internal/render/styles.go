package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	spinnerTint = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Error writes a one-line error report to w.
func Error(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %v\n", errorStyle.Render("huh:"), err)
}

// Hint writes a dimmed follow-up line to w.
func Hint(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, hintStyle.Render(msg))
}
