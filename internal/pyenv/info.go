package pyenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/voicelab/pipdoctor/internal/core"
)

// Info describes the Python interpreter behind a resolver.
type Info struct {
	Python        string
	ResolvedPath  string
	PythonVersion string
	PipVersion    string
}

// EnvInfo collects interpreter diagnostics: the resolved executable path,
// the interpreter version, and the pip version. A missing pip is reported
// as an empty PipVersion rather than an error.
func (r *Resolver) EnvInfo(ctx context.Context) (Info, error) {
	info := Info{Python: r.python}

	if path, err := exec.LookPath(r.python); err == nil {
		info.ResolvedPath = path
	}

	pythonVersion, err := r.runOneLiner(ctx, "--version")
	if err != nil {
		return info, fmt.Errorf("failed to query interpreter version: %w", err)
	}
	info.PythonVersion = strings.TrimPrefix(pythonVersion, "Python ")

	pipVersion, err := r.runOneLiner(ctx, "-m", "pip", "--version")
	if err == nil {
		// pip reports "pip X.Y.Z from <path> (python N.M)"; keep the number.
		fields := strings.Fields(pipVersion)
		if len(fields) >= 2 && fields[0] == "pip" {
			info.PipVersion = fields[1]
		} else {
			info.PipVersion = pipVersion
		}
	}

	return info, nil
}

// runOneLiner runs the interpreter with the given args and returns the
// first line of combined output, trimmed.
func (r *Resolver) runOneLiner(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, core.TimeoutShort)
	defer cancel()

	cmd := r.execCommand(ctx, r.python, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w", r.python, strings.Join(args, " "), err)
	}

	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}
