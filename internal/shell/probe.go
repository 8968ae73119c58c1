package shell

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"
)

const probeTimeout = 3 * time.Second

// family is the prompt-probing strategy for one shell family.
type family interface {
	// promptArgs returns the arguments that make the shell print its
	// rendered prompt to stdout and exit.
	promptArgs() []string
}

// posixFamily runs an interactive shell so rc files set the prompt variable.
type posixFamily struct {
	script string
}

func (f posixFamily) promptArgs() []string {
	return []string{"-i", "-c", f.script}
}

type powershellFamily struct{}

func (powershellFamily) promptArgs() []string {
	return []string{"-NoLogo", "-NonInteractive", "-Command", "prompt"}
}

// families maps shell names to their probing strategy. Shells without an
// entry (cmd, csh) never yield a prompt.
var families = map[string]family{
	"bash":       posixFamily{script: `printf "%s" "${PS1@P}"`},
	"zsh":        posixFamily{script: `print -rn -- "${(%%)PS1}"`},
	"sh":         posixFamily{script: `printf "%s" "$PS1"`},
	"powershell": powershellFamily{},
}

// execCommandFn is injectable for testing. Default returns the command's stdout.
var execCommandFn = defaultExecCommand

func defaultExecCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Probe asks the shell to print its prompt. Returns "" when the shell is
// unknown, has no probing strategy, or the probe fails in any way.
func Probe(name, path string, logger *zap.Logger) string {
	if name == "" {
		return ""
	}
	f, ok := families[name]
	if !ok {
		logger.Debug("no prompt probe for shell", zap.String("name", name))
		return ""
	}
	if path == "" {
		path = name
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := execCommandFn(ctx, path, f.promptArgs()...)
	if err != nil {
		logger.Debug("prompt probe failed", zap.String("shell", path), zap.Error(err))
		return ""
	}
	return cleanPrompt(out)
}

// cleanPrompt strips terminal escapes, readline markers and invalid UTF-8 and
// keeps the last line, since captured text is matched one line at a time.
func cleanPrompt(raw string) string {
	s := strings.NewReplacer("\x01", "", "\x02", "", "\r\n", "\n").Replace(raw)
	s = strings.ToValidUTF8(ansi.Strip(s), "")
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
