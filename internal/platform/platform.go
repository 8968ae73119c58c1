// Package platform provides OS, environment and multiplexer detection helpers.
package platform

import (
	"os"
	"runtime"
)

// Multiplexer identifies the terminal multiplexer hosting the session.
type Multiplexer string

const (
	None   Multiplexer = ""
	Tmux   Multiplexer = "tmux"
	Screen Multiplexer = "screen"
	Zellij Multiplexer = "zellij"
)

// OS returns the operating system name (e.g., "darwin", "linux").
func OS() string {
	return runtime.GOOS
}

// IsWindows reports whether the OS command shell is cmd/PowerShell.
func IsWindows() bool {
	return OS() == "windows"
}

// ShellVars are the environment variables that may declare the user's shell,
// in lookup order. TF_SHELL is exported by thefuck's shell aliases.
var ShellVars = []string{"SHELL", "TF_SHELL"}

// DetectMultiplexer inspects session-type variables. tmux wins over screen
// when nested, since its pane is the innermost one.
func DetectMultiplexer() Multiplexer {
	switch {
	case os.Getenv("TMUX") != "":
		return Tmux
	case os.Getenv("STY") != "":
		return Screen
	case os.Getenv("ZELLIJ") != "":
		return Zellij
	default:
		return None
	}
}
