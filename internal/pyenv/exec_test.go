package pyenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"testing"
)

// helperBehavior describes what the fake interpreter should do for each
// kind of invocation the resolver makes.
type helperBehavior struct {
	pipOut    string
	pipExit   int
	probeOut  string
	probeErr  string
	probeExit int
	pyOut     string
	pyExit    int
}

// fakeExecCommand returns an execCommandFunc that re-executes the test
// binary as the subprocess, with the desired behavior passed through the
// environment. Standard test re-exec pattern.
func fakeExecCommand(behavior helperBehavior) execCommandFunc {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, arg...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...) //nolint:gosec // G702: standard test re-exec pattern
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"HELPER_PIP_OUT="+behavior.pipOut,
			"HELPER_PIP_EXIT="+strconv.Itoa(behavior.pipExit),
			"HELPER_PROBE_OUT="+behavior.probeOut,
			"HELPER_PROBE_ERR="+behavior.probeErr,
			"HELPER_PROBE_EXIT="+strconv.Itoa(behavior.probeExit),
			"HELPER_PY_OUT="+behavior.pyOut,
			"HELPER_PY_EXIT="+strconv.Itoa(behavior.pyExit),
		)
		return cmd
	}
}

// TestHelperProcess is not a real test: it impersonates the Python
// interpreter for fakeExecCommand children.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	exitWith := func(out, errOut string, code int) {
		fmt.Fprint(os.Stdout, out)
		fmt.Fprint(os.Stderr, errOut)
		os.Exit(code)
	}

	switch {
	case slices.Contains(args, "show"), slices.Contains(args, "pip"):
		code, _ := strconv.Atoi(os.Getenv("HELPER_PIP_EXIT"))
		exitWith(os.Getenv("HELPER_PIP_OUT"), "", code)
	case slices.Contains(args, "-c"):
		code, _ := strconv.Atoi(os.Getenv("HELPER_PROBE_EXIT"))
		exitWith(os.Getenv("HELPER_PROBE_OUT"), os.Getenv("HELPER_PROBE_ERR"), code)
	default:
		code, _ := strconv.Atoi(os.Getenv("HELPER_PY_EXIT"))
		exitWith(os.Getenv("HELPER_PY_OUT"), "", code)
	}
}
