// Package safety flags destructive commands among those a model suggests.
// Classification is pattern based so it never depends on the model that
// produced the command.
package safety

import (
	"regexp"
	"sync"

	"github.com/samber/lo"
)

// Level represents the safety classification of a command.
type Level int

const (
	Safe Level = iota
	Destructive
)

func (l Level) String() string {
	if l == Destructive {
		return "destructive"
	}
	return "safe"
}

// Finding is a suggested command that needs care before running.
type Finding struct {
	Command string
	Reason  string
}

// rule pairs a destructive pattern with an optional exclusion pattern.
// A command that matches both pattern and exclude is not flagged by this rule.
type rule struct {
	pattern *regexp.Regexp
	exclude *regexp.Regexp // nil means no exclusion
	reason  string
}

type rawRule struct {
	pattern string
	exclude string
	reason  string
}

var destructiveRules = []rawRule{
	{`\brm\s`, "", "deletes files"},
	{`\brm$`, "", "deletes files"},
	{`\bRemove-Item\b`, "", "deletes files"},
	{`\b(del|erase|rmdir|rd)\s+/[sq]\b`, "", "deletes files"},
	{`\bsudo\s`, "", "runs as root"},
	{`\bdd\s+if=`, "", "writes raw devices"},
	{`\bmkfs\b`, "", "formats a filesystem"},
	{`\bfdisk\b`, "", "edits partitions"},
	// Redirections to /dev/ are destructive, but /dev/null, /dev/stdout, /dev/stderr are safe.
	{`>+\s*/dev/`, `>+\s*/dev/(null|stdout|stderr)(\s|;|&|$)`, "writes to a device"},
	{`\bchmod\s+(-R\s+)?0*00\b`, "", "removes all permissions"},
	{`\bchown\s+-R\b`, "", "changes ownership recursively"},
	{`\bkill\s+-9\b`, "", "force-kills a process"},
	{`\bkillall\s`, "", "kills processes by name"},
	{`\b(shutdown|reboot)\b`, "", "restarts the machine"},
	{`\bsystemctl\s+(stop|disable|mask)\b`, "", "stops a service"},
	{`\bmv\s+/`, "", "moves system paths"},
	{`:\s*>\s*\S`, "", "truncates a file"},
	{`\btruncate\b`, "", "truncates a file"},
	{`\bshred\b`, "", "destroys file contents"},
	{`\bgit\s+(reset\s+--hard|clean\s+-\w*f|push\s+.*--force)`, "", "discards git history or changes"},
	{`\bdocker\s+(system|volume|image)\s+prune\b`, "", "deletes docker data"},
	{`\b(DROP|TRUNCATE)\s+(TABLE|DATABASE)\b`, "", "drops database objects"},
}

var (
	rules     []rule
	rulesOnce sync.Once
)

func compileRules() {
	rulesOnce.Do(func() {
		rules = lo.Map(destructiveRules, func(r rawRule, _ int) rule {
			compiled := rule{pattern: regexp.MustCompile(r.pattern), reason: r.reason}
			if r.exclude != "" {
				compiled.exclude = regexp.MustCompile(r.exclude)
			}
			return compiled
		})
	})
}

// Classify examines a shell command and returns its safety level and, for
// destructive commands, why.
func Classify(command string) (Level, string) {
	compileRules()
	for _, r := range rules {
		if !r.pattern.MatchString(command) {
			continue
		}
		if r.exclude != nil && r.exclude.MatchString(command) {
			continue
		}
		return Destructive, r.reason
	}
	return Safe, ""
}

// Review returns a finding for every destructive command, one per line of
// multi-line suggestions.
func Review(commands []string) []Finding {
	var findings []Finding
	for _, block := range commands {
		for _, line := range splitCommandLines(block) {
			if level, reason := Classify(line); level == Destructive {
				findings = append(findings, Finding{Command: line, Reason: reason})
			}
		}
	}
	return findings
}

var commandLineRe = regexp.MustCompile(`(?m)^\s*(?:[$>%#]\s+)?(\S.*?)\s*$`)

// splitCommandLines drops blank lines and leading prompt markers.
func splitCommandLines(block string) []string {
	var lines []string
	for _, m := range commandLineRe.FindAllStringSubmatch(block, -1) {
		lines = append(lines, m[1])
	}
	return lines
}
