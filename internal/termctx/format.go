package termctx

import (
	"fmt"
	"strings"
)

// NoHistory is sent when nothing could be captured.
const NoHistory = "<terminal_history>No terminal history found.</terminal_history>"

// Options configures Build.
type Options struct {
	// MaxChars is the character budget for the whole history.
	MaxChars int
	// MaxCommands keeps only the newest commands; 0 keeps all.
	MaxCommands int
	// Self is this program's name, used to drop its own invocation.
	Self string
}

// Build turns a raw capture into the tagged history block sent to the model.
// With a prompt the capture is segmented into commands; without one, or when
// segmentation finds nothing, the trimmed raw text is used instead.
func Build(raw, prompt string, opts Options) string {
	if strings.TrimSpace(raw) == "" {
		return NoHistory
	}

	if prompt != "" {
		cmds := Segment(raw, prompt)
		cmds = DropInvocation(cmds, opts.Self)
		cmds = Limit(cmds, opts.MaxCommands)
		cmds = Truncate(cmds, opts.MaxChars)
		if len(cmds) > 0 {
			return FormatCommands(Chronological(cmds), prompt)
		}
	}

	trimmed := TruncatePaneOutput(raw, opts.MaxChars)
	if strings.TrimSpace(trimmed) == "" {
		return NoHistory
	}
	return FormatRaw(trimmed)
}

// FormatCommands renders oldest-first cmds: all but the last inside
// <previous_commands>, the last inside <last_command>.
func FormatCommands(cmds []Command, prompt string) string {
	if len(cmds) == 0 {
		return NoHistory
	}

	var b strings.Builder
	b.WriteString("<terminal_history>\n")

	previous, last := cmds[:len(cmds)-1], cmds[len(cmds)-1]
	if len(previous) > 0 {
		b.WriteString("<previous_commands>\n")
		for _, c := range previous {
			writeCommand(&b, c, prompt)
		}
		b.WriteString("</previous_commands>\n\n")
	}

	b.WriteString("<last_command>\n")
	writeCommand(&b, last, prompt)
	b.WriteString("</last_command>\n")

	b.WriteString("</terminal_history>")
	return b.String()
}

// FormatRaw wraps unstructured capture text.
func FormatRaw(text string) string {
	return fmt.Sprintf("<terminal_history>\n%s\n</terminal_history>", strings.TrimSpace(text))
}

func writeCommand(b *strings.Builder, c Command, prompt string) {
	fmt.Fprintf(b, "%s %s\n", strings.TrimRight(prompt, " "), c.Text)
	if strings.TrimSpace(c.Output) != "" {
		fmt.Fprintf(b, "%s\n", c.Output)
	}
}
