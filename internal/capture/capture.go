// Package capture pulls raw terminal text for LLM context: multiplexer
// scrollback when available, shell history otherwise.
// All capturing is best-effort: failures are logged and produce empty text,
// never errors.
package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hpkotak/huh/internal/platform"
	"go.uber.org/zap"
)

const cmdTimeout = 5 * time.Second

// Source names where captured text came from.
type Source string

const (
	SourceNone        Source = ""
	SourceTmux        Source = "tmux"
	SourceScreen      Source = "screen"
	SourceZellij      Source = "zellij"
	SourcePSReadLine  Source = "psreadline"
	SourceDoskey      Source = "doskey"
	SourceHistoryFile Source = "history-file"
)

// Result is a raw capture. Text is opaque terminal text, oldest line first.
type Result struct {
	Text   string
	Source Source
}

// Empty reports whether nothing was captured.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Options tunes a capture.
type Options struct {
	// ScrollbackLines caps how many trailing lines are kept; 0 means all.
	ScrollbackLines int
	// ShellName selects the default history file when $HISTFILE is unset.
	ShellName string
}

// Package-level function variables for testability.
var (
	execCommandFn     = defaultExecCommand
	getenv            = os.Getenv
	userHomeDir       = os.UserHomeDir
	isWindows         = platform.IsWindows
	detectMultiplexer = platform.DetectMultiplexer
)

func defaultExecCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Pane captures terminal text. Policy, in order: the active multiplexer's
// scrollback, then on Windows the PowerShell history with doskey as a
// fallback, then a shell history file in the home directory.
func Pane(opts Options, logger *zap.Logger) Result {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	if mux := detectMultiplexer(); mux != platform.None {
		if r := captureMultiplexer(ctx, mux, opts, logger); !r.Empty() {
			return r
		}
	}

	if isWindows() {
		return captureWindowsHistory(ctx, opts, logger)
	}

	return captureHistoryFile(opts, logger)
}

func captureMultiplexer(ctx context.Context, mux platform.Multiplexer, opts Options, logger *zap.Logger) Result {
	switch mux {
	case platform.Tmux:
		start := "-"
		if opts.ScrollbackLines > 0 {
			start = "-" + strconv.Itoa(opts.ScrollbackLines)
		}
		out, err := execCommandFn(ctx, "tmux", "capture-pane", "-p", "-J", "-S", start)
		if err != nil {
			logger.Debug("tmux capture failed", zap.Error(err))
			return Result{}
		}
		return Result{Text: out, Source: SourceTmux}

	case platform.Screen:
		text, err := captureToTempFile(ctx, "screen", []string{"-X", "hardcopy", "-h"})
		if err != nil {
			logger.Debug("screen hardcopy failed", zap.Error(err))
			return Result{}
		}
		return Result{Text: tailLines(text, opts.ScrollbackLines), Source: SourceScreen}

	case platform.Zellij:
		text, err := captureToTempFile(ctx, "zellij", []string{"action", "dump-screen", "-f"})
		if err != nil {
			logger.Debug("zellij dump-screen failed", zap.Error(err))
			return Result{}
		}
		return Result{Text: tailLines(text, opts.ScrollbackLines), Source: SourceZellij}
	}
	return Result{}
}

// captureToTempFile runs name with args plus a temp file path the command
// writes into, and returns the file's contents. The file is always removed.
func captureToTempFile(ctx context.Context, name string, args []string) (string, error) {
	f, err := os.CreateTemp("", "huh-capture-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating capture file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing capture file: %w", err)
	}

	if _, err := execCommandFn(ctx, name, append(args, path)...); err != nil {
		return "", fmt.Errorf("running %s: %w", name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading capture file: %w", err)
	}
	return string(data), nil
}

func captureWindowsHistory(ctx context.Context, opts Options, logger *zap.Logger) Result {
	script := "Get-Content (Get-PSReadLineOption).HistorySavePath"
	if opts.ScrollbackLines > 0 {
		script += " -Tail " + strconv.Itoa(opts.ScrollbackLines)
	}
	out, err := execCommandFn(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if err == nil && strings.TrimSpace(out) != "" {
		return Result{Text: out, Source: SourcePSReadLine}
	}
	logger.Debug("powershell history unavailable, trying doskey", zap.Error(err))

	out, err = execCommandFn(ctx, "doskey", "/history")
	if err != nil {
		logger.Debug("doskey history failed", zap.Error(err))
		return Result{}
	}
	return Result{Text: tailLines(out, opts.ScrollbackLines), Source: SourceDoskey}
}

// zshExtendedPrefix matches EXTENDED_HISTORY metadata (": 1700000000:0;").
var zshExtendedPrefix = regexp.MustCompile(`(?m)^: \d+:\d+;`)

func captureHistoryFile(opts Options, logger *zap.Logger) Result {
	path := historyFilePath(opts.ShellName)
	if path == "" {
		return Result{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("history file unavailable", zap.String("path", path), zap.Error(err))
		return Result{}
	}

	text := zshExtendedPrefix.ReplaceAllString(string(data), "")
	return Result{Text: tailLines(text, opts.ScrollbackLines), Source: SourceHistoryFile}
}

func historyFilePath(shellName string) string {
	if p := getenv("HISTFILE"); p != "" {
		return p
	}
	home, err := userHomeDir()
	if err != nil || home == "" {
		return ""
	}
	if shellName == "zsh" {
		return filepath.Join(home, ".zsh_history")
	}
	return filepath.Join(home, ".bash_history")
}

// tailLines keeps the last max lines of s; max <= 0 keeps everything.
func tailLines(s string, max int) string {
	if max <= 0 {
		return s
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[len(lines)-max:], "\n") + "\n"
}
