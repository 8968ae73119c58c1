package render

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Status shows a spinner with a label while work is in progress.
// The zero value and statuses on non-terminals do nothing.
type Status struct {
	program *tea.Program
	done    chan struct{}
}

type statusModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

type stopMsg struct{}

func newStatusModel(label string) statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerTint
	return statusModel{spinner: s, label: label}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m statusModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + labelStyle.Render(m.label)
}

// StartStatus begins drawing the spinner on out when it is a terminal.
func StartStatus(out *os.File, label string) *Status {
	if !IsTerminal(out) {
		return &Status{}
	}
	return startStatus(out, label)
}

func startStatus(out io.Writer, label string) *Status {
	p := tea.NewProgram(newStatusModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s := &Status{program: p, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		_, _ = p.Run()
	}()
	return s
}

// Stop clears the spinner and waits for it to exit. Safe to call repeatedly.
func (s *Status) Stop() {
	if s == nil || s.program == nil {
		return
	}
	s.program.Send(stopMsg{})
	<-s.done
	s.program = nil
}
