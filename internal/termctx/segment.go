// Package termctx turns raw terminal captures into bounded, tagged LLM context.
//
// Captured text is split into commands using the shell's prompt string,
// truncated to a character budget that favours the most recent content, and
// rendered into a <terminal_history> block. When no prompt is known the raw
// capture is trimmed and used as-is.
package termctx

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Command is one prompt line and the output printed after it.
type Command struct {
	Text   string
	Output string
}

// Segment splits raw into commands by locating lines that contain prompt,
// case-insensitively. Lines are scanned newest first; the text after the
// prompt's first occurrence becomes the command, the lines below it its
// output. The oldest assembled command is discarded as a boundary segment.
// The result is ordered newest to oldest. An empty prompt yields nil.
func Segment(raw, prompt string) []Command {
	if prompt == "" {
		return nil
	}
	lines := splitLines(raw)
	var (
		cmds   []Command
		buffer []string
	)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		end := indexFoldEnd(line, prompt)
		if end < 0 {
			buffer = append(buffer, line)
			continue
		}
		cmds = append(cmds, Command{
			Text:   strings.TrimSpace(line[end:]),
			Output: joinOutput(buffer),
		})
		buffer = buffer[:0]
	}

	if len(cmds) == 0 {
		return nil
	}
	return cmds[:len(cmds)-1]
}

// DropInvocation removes the newest command when it is this tool's own
// invocation, which a multiplexer pane always ends with.
func DropInvocation(cmds []Command, self string) []Command {
	if len(cmds) == 0 || self == "" {
		return cmds
	}
	fields := strings.Fields(cmds[0].Text)
	if len(fields) == 0 {
		return cmds
	}
	program := fields[0]
	if i := strings.LastIndexAny(program, `/\`); i >= 0 {
		program = program[i+1:]
	}
	if !strings.EqualFold(strings.TrimSuffix(program, ".exe"), self) {
		return cmds
	}
	return cmds[1:]
}

// Limit keeps the newest n commands; n <= 0 keeps all.
func Limit(cmds []Command, n int) []Command {
	if n <= 0 || len(cmds) <= n {
		return cmds
	}
	return cmds[:n]
}

// Chronological returns a copy of newest-first cmds ordered oldest first.
func Chronological(cmds []Command) []Command {
	return lo.Reverse(append([]Command(nil), cmds...))
}

// indexFoldEnd returns the byte offset just past the first case-insensitive
// occurrence of sub in s, or -1. Invalid UTF-8 bytes only match themselves.
func indexFoldEnd(s, sub string) int {
	for i := 0; i < len(s); {
		if n := foldPrefixLen(s[i:], sub); n >= 0 {
			return i + n
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return -1
}

// foldPrefixLen returns the length in s of a prefix equal to prefix under
// simple case folding, or -1.
func foldPrefixLen(s, prefix string) int {
	n := 0
	for prefix != "" {
		if s == "" {
			return -1
		}
		pr, pw := utf8.DecodeRuneInString(prefix)
		sr, sw := utf8.DecodeRuneInString(s)
		if pr == utf8.RuneError || sr == utf8.RuneError {
			if s[:sw] != prefix[:pw] {
				return -1
			}
		} else if pr != sr && !strings.EqualFold(string(pr), string(sr)) {
			return -1
		}
		n += sw
		s, prefix = s[sw:], prefix[pw:]
	}
	return n
}

func splitLines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}

// joinOutput restores reversed buffer lines to reading order and drops
// trailing blank lines.
func joinOutput(reversed []string) string {
	lines := lo.Reverse(append([]string(nil), reversed...))
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
