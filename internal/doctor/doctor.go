// Package doctor checks whether huh can capture terminal context and reach
// its model, and prints the results.
package doctor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hpkotak/huh/internal/capture"
	"github.com/hpkotak/huh/internal/platform"
	"github.com/hpkotak/huh/internal/provider"
	"github.com/hpkotak/huh/internal/shell"
	"github.com/samber/lo"
)

// Status is the outcome of a single check.
type Status int

const (
	OK Status = iota
	Warn
	Fail
)

func (s Status) marker() string {
	switch s {
	case OK:
		return "[ok]"
	case Warn:
		return "[--]"
	default:
		return "[!!]"
	}
}

// Check is one line of the report.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report is the ordered result of Run.
type Report struct {
	Checks []Check
}

// Healthy reports whether no check failed. Warnings still allow a run.
func (r Report) Healthy() bool {
	return !lo.ContainsBy(r.Checks, func(c Check) bool { return c.Status == Fail })
}

// Write prints one line per check.
func (r Report) Write(w io.Writer) {
	for _, c := range r.Checks {
		_, _ = fmt.Fprintf(w, "%s %-9s %s\n", c.Status.marker(), c.Name, c.Detail)
	}
}

// Inputs are the already-gathered facts to check. Provider is nil when it
// could not be built, in which case ProviderErr says why.
type Inputs struct {
	Shell       shell.Shell
	Multiplexer platform.Multiplexer
	Capture     capture.Result
	Provider    provider.Provider
	ProviderErr error
}

// Run evaluates in. Only the provider check touches the network.
func Run(ctx context.Context, in Inputs) Report {
	return Report{Checks: []Check{
		checkShell(in.Shell),
		checkPrompt(in.Shell),
		checkCapture(in.Multiplexer, in.Capture),
		checkProvider(ctx, in.Provider, in.ProviderErr),
	}}
}

func checkShell(sh shell.Shell) Check {
	if sh.Name == "" {
		return Check{Name: "shell", Status: Warn, Detail: "not identified; set SHELL to your shell's path"}
	}
	detail := sh.Name
	if sh.Path != "" && sh.Path != sh.Name {
		detail = fmt.Sprintf("%s (%s)", sh.Name, sh.Path)
	}
	return Check{Name: "shell", Status: OK, Detail: detail}
}

func checkPrompt(sh shell.Shell) Check {
	if !sh.HasPrompt() {
		detail := "unknown; history is sent without splitting it into commands"
		if sh.Name == "bash" {
			// ${PS1@P} expansion arrived in bash 4.4; macOS ships 3.2.
			detail += " (prompt probing needs bash 4.4 or newer)"
		}
		return Check{Name: "prompt", Status: Warn, Detail: detail}
	}
	return Check{Name: "prompt", Status: OK, Detail: fmt.Sprintf("%q", sh.Prompt)}
}

func checkCapture(mux platform.Multiplexer, r capture.Result) Check {
	if r.Empty() {
		detail := "nothing captured"
		if mux == platform.None {
			detail += "; run huh inside tmux, screen or zellij for full scrollback"
		}
		return Check{Name: "capture", Status: Fail, Detail: detail}
	}

	lines := strings.Count(strings.TrimRight(r.Text, "\n"), "\n") + 1
	detail := fmt.Sprintf("%d lines from %s", lines, r.Source)
	if mux == platform.None {
		return Check{Name: "capture", Status: Warn, Detail: detail + " (no multiplexer, command output is unavailable)"}
	}
	return Check{Name: "capture", Status: OK, Detail: detail}
}

func checkProvider(ctx context.Context, p provider.Provider, buildErr error) Check {
	if buildErr != nil {
		return Check{Name: "provider", Status: Fail, Detail: buildErr.Error()}
	}
	if p == nil {
		return Check{Name: "provider", Status: Fail, Detail: "not configured"}
	}
	if err := p.Available(ctx); err != nil {
		return Check{Name: "provider", Status: Fail, Detail: fmt.Sprintf("%s: %v", p.Name(), err)}
	}
	return Check{Name: "provider", Status: OK, Detail: p.Name() + " is reachable"}
}
