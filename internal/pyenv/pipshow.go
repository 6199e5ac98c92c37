package pyenv

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

// errNoVersionLine is returned when pip's output carries no Version line,
// which is how pip reports packages it does not know about.
var errNoVersionLine = errors.New("no version line in pip output")

// pipShow queries pip's metadata for a package and extracts the version.
// pip show emits "Field: value" lines; only the first case-insensitive
// "Version:" line is consulted. Output captured before a failure is still
// scanned, since pip exits non-zero when any requested package is missing.
func (r *Resolver) pipShow(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.execCommand(ctx, r.python, "-m", "pip", "show", name)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if version, ok := scanVersionLine(stdout.String()); ok {
		return version, nil
	}

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("pip show %s timed out after %v: %w", name, r.timeout, runErr)
		}
		stderrMsg := strings.TrimSpace(stderr.String())
		if stderrMsg != "" {
			return "", fmt.Errorf("pip show %s: %s: %w", name, stderrMsg, runErr)
		}
		return "", fmt.Errorf("pip show %s failed: %w", name, runErr)
	}

	return "", fmt.Errorf("pip show %s: %w", name, errNoVersionLine)
}

// scanVersionLine finds the first line starting with a case-insensitive
// "version:" prefix and returns the remainder after the first colon,
// trimmed of surrounding whitespace.
func scanVersionLine(output string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(strings.ToLower(line), "version:") {
			continue
		}
		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}
