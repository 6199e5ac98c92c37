package pyenv

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// moduleNameRegex restricts import probe targets to well-formed Python
// module paths. The module name is interpolated into a -c program, so
// anything else is rejected outright.
var moduleNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// importProbe imports a module in a throwaway interpreter and reads its
// __version__ attribute. This catches packages installed outside pip's
// metadata (editable installs, conda environments).
func (r *Resolver) importProbe(ctx context.Context, module string) (string, error) {
	if !moduleNameRegex.MatchString(module) {
		return "", fmt.Errorf("invalid module name %q", module)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	program := fmt.Sprintf("import %s; print(%s.__version__)", module, module)
	cmd := r.execCommand(ctx, r.python, "-c", program)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("import probe for %s timed out after %v: %w", module, r.timeout, err)
		}
		stderrMsg := strings.TrimSpace(stderr.String())
		if stderrMsg != "" {
			// Python tracebacks are noisy; keep only the final line.
			lines := strings.Split(stderrMsg, "\n")
			stderrMsg = strings.TrimSpace(lines[len(lines)-1])
			return "", fmt.Errorf("import probe for %s: %s: %w", module, stderrMsg, err)
		}
		return "", fmt.Errorf("import probe for %s failed: %w", module, err)
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" {
		return "", fmt.Errorf("import probe for %s returned empty version", module)
	}
	return version, nil
}
