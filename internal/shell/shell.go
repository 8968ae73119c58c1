// Package shell identifies the interactive shell hosting the session and
// probes it for its rendered prompt string.
// All detection is best-effort: failures produce empty fields, never errors.
package shell

import (
	"strings"

	"github.com/hpkotak/huh/internal/platform"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// maxAncestry bounds the parent-process ascent.
const maxAncestry = 64

// Shell describes the detected shell. An empty Prompt means no prompt is known
// and callers should treat captured text as unstructured.
type Shell struct {
	Path   string
	Name   string
	Prompt string
}

// HasPrompt reports whether prompt-based segmentation is possible.
func (s Shell) HasPrompt() bool {
	return s.Prompt != ""
}

// Env looks up an environment variable. os.Getenv satisfies it.
type Env func(key string) string

// Match resolves candidate against the known shell names. It tries, in order,
// the extension of the last path element, the last path element without its
// extension, and the whole lower-cased candidate. Returns "" on no match.
func Match(candidate string, names []string) string {
	if candidate == "" {
		return ""
	}
	lower := strings.ToLower(candidate)

	base := lower
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	// Login shells report themselves as "-zsh".
	base = strings.TrimPrefix(base, "-")
	stem, ext := base, ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		stem, ext = base[:i], base[i+1:]
	}

	for _, c := range []string{ext, stem, lower} {
		if c != "" && lo.ContainsBy(names, func(n string) bool { return strings.EqualFold(n, c) }) {
			return c
		}
	}
	return ""
}

// Identify determines the shell name and path. The declared shell variables
// are checked first; if none resolves, the process ancestry is walked from
// tree's current process upwards. Both return values may be empty.
func Identify(env Env, names []string, tree ProcessTree, logger *zap.Logger) (name, path string) {
	var declared string
	for _, key := range platform.ShellVars {
		p := env(key)
		if p == "" {
			continue
		}
		if declared == "" {
			declared = p
		}
		if name = Match(p, names); name != "" {
			logger.Debug("shell from environment", zap.String("var", key), zap.String("name", name))
			return name, p
		}
	}

	if tree == nil {
		return "", declared
	}

	proc, err := tree.Current()
	for depth := 0; err == nil && proc != nil && proc.PID() > 0 && depth < maxAncestry; depth++ {
		procName, nameErr := proc.Name()
		if nameErr == nil {
			if name = Match(procName, names); name != "" {
				exe, exeErr := proc.Exe()
				if exeErr != nil || exe == "" {
					exe = procName
				}
				logger.Debug("shell from process ancestry",
					zap.Int32("pid", proc.PID()),
					zap.String("name", name),
					zap.Int("depth", depth))
				return name, exe
			}
		}
		proc, err = proc.Parent()
	}
	if err != nil {
		logger.Debug("process ancestry walk stopped", zap.Error(err))
	}

	return "", declared
}

// Detect identifies the shell and probes its prompt.
func Detect(env Env, names []string, tree ProcessTree, logger *zap.Logger) Shell {
	name, path := Identify(env, names, tree, logger)
	return Shell{
		Path:   path,
		Name:   name,
		Prompt: Probe(name, path, logger),
	}
}
