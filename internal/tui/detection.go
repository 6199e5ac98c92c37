package tui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive determines if the current environment supports interactive
// prompts and spinners. It returns false when stdout is not a terminal
// (redirected to a file or pipe) or when running under CI.
func IsInteractive() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec // G115: fd is a small value, no overflow risk
		return false
	}

	// Common CI environment variables.
	ciEnvs := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"JENKINS_HOME",
		"BUILDKITE",
		"DRONE",
		"TF_BUILD",
	}

	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return false
		}
	}

	return true
}

// IsTTY checks if stdout is a terminal.
// This is a lower-level check than IsInteractive.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}
