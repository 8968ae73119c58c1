// Package prompt builds the messages sent to the model and parses its reply.
// The parser is tolerant: whatever the model returns is kept for display, and
// any fenced commands it suggests are pulled out alongside.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultInstruction is the user request when no query is given.
const DefaultInstruction = "Explain the last command's output. Use the previous commands as context, if relevant."

const formatting = `<formatting>
- Use Markdown to format your response.
- Commands (both single and multi-line) should be placed in fenced markdown blocks.
- Code snippets should be placed in fenced markdown blocks.
- Only use bold for warnings or key takeaways.
- Break down your response into digestible parts.
- Keep your response as short as possible. No more than 5 sentences, unless the issue is complex.
</formatting>`

// ExplainSystemPrompt instructs the model to explain the last command's output.
var ExplainSystemPrompt = `<assistant>
You are a command-line assistant whose job is to explain the output of the most recently executed command in the terminal.
Your goal is to help users understand (and potentially fix) things like stack traces, error messages, logs, or any other confusing output from the terminal.
</assistant>

<instructions>
- Receive the last command in the terminal history and the previous commands before it as context.
- Explain the output of the last command.
- Use a clear, concise, and informative tone.
- If the output is an error or warning, e.g. a stack trace or incorrect command, identify the root cause and suggest a fix.
- Otherwise, if the output is something else, e.g. logs or a web response, summarize the key points.
</instructions>

` + formatting

// AnswerSystemPrompt instructs the model to answer a question about the last command.
var AnswerSystemPrompt = `<assistant>
You are a command-line assistant whose job is to answer the user's question about the most recently executed command in the terminal.
</assistant>

<instructions>
- Receive the last command in the terminal history and the previous commands before it as context.
- Use a clear, concise, and informative tone.
</instructions>

` + formatting

// SystemPrompt picks the answer prompt when the user asked something,
// the explain prompt otherwise.
func SystemPrompt(query string) string {
	if strings.TrimSpace(query) != "" {
		return AnswerSystemPrompt
	}
	return ExplainSystemPrompt
}

// UserMessage combines the formatted terminal history with the user's
// question, or the default instruction when query is blank.
func UserMessage(history, query string) string {
	request := strings.TrimSpace(query)
	if request == "" {
		request = DefaultInstruction
	}
	return fmt.Sprintf("%s\n\n%s", history, request)
}

// Explanation is a parsed model reply.
type Explanation struct {
	Text     string   // full reply for display
	Commands []string // commands suggested in fenced blocks
}

// codeBlockRe matches fenced code blocks: ```lang\n...\n``` or ```\n...\n```
var codeBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\n(.*?)```")

// ParseExplanation trims the reply and extracts commands from fenced blocks.
func ParseExplanation(raw string) Explanation {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Explanation{}
	}

	var commands []string
	for _, m := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		if cmd := strings.TrimSpace(m[1]); cmd != "" {
			commands = append(commands, cmd)
		}
	}

	return Explanation{Text: text, Commands: commands}
}
