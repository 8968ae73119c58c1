package termctx

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Truncate bounds newest-first cmds to budget characters (runes) across
// command text and output.
//
// Commands are admitted in order while their text fits; the first one that
// does not fit stops processing and everything after it is dropped, even if a
// later command would fit. The most recent command is never dropped: if its
// text alone exceeds the budget it is cut to the budget. Each admitted
// output keeps its last lines, and the line that crosses the budget is cut
// to its tail.
func Truncate(cmds []Command, budget int) []Command {
	var (
		kept []Command
		used int
	)
	for i, c := range cmds {
		textLen := utf8.RuneCountInString(c.Text)
		if used+textLen > budget {
			if i == 0 {
				kept = append(kept, Command{Text: headRunes(c.Text, budget)})
			}
			break
		}
		used += textLen

		output, n := tailOutput(c.Output, budget-used)
		used += n
		kept = append(kept, Command{Text: c.Text, Output: output})
	}
	return kept
}

// tailOutput keeps the trailing lines of output within remaining runes.
// Each line costs its length plus one for its newline. Returns the kept
// text and the runes charged.
func tailOutput(output string, remaining int) (string, int) {
	if output == "" || remaining <= 0 {
		return "", 0
	}

	lines := strings.Split(output, "\n")
	var (
		kept []string
		used int
	)
	for i := len(lines) - 1; i >= 0; i-- {
		cost := utf8.RuneCountInString(lines[i]) + 1
		if used+cost > remaining {
			if room := remaining - used - 1; room > 0 {
				kept = append(kept, tailRunes(lines[i], room))
				used += room + 1
			}
			break
		}
		kept = append(kept, lines[i])
		used += cost
	}
	return strings.Join(lo.Reverse(kept), "\n"), used
}

// TruncatePaneOutput trims an unstructured capture: it drops one trailing
// blank-line artifact after the last non-empty line, then keeps the last
// budget runes, since the newest content sits at the end of the buffer.
// Whitespace-only input yields "".
func TruncatePaneOutput(text string, budget int) string {
	lines := strings.Split(text, "\n")

	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}
	if last < 0 {
		return ""
	}
	if last < len(lines)-1 {
		lines = lines[:len(lines)-1]
	}

	return tailRunes(strings.Join(lines, "\n"), budget)
}

func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
