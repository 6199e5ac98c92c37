package env

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/pyenv"
	"github.com/voicelab/pipdoctor/internal/testutils"
)

func TestMain(m *testing.M) {
	printer.SetNoColor(true)
	m.Run()
}

// fakeInspector returns canned interpreter info.
type fakeInspector struct {
	info        pyenv.Info
	validateErr error
}

func (f *fakeInspector) EnvInfo(ctx context.Context) (pyenv.Info, error) {
	return f.info, nil
}

func (f *fakeInspector) ValidatePythonAvailable(ctx context.Context) error {
	return f.validateErr
}

func installFakeInspector(t *testing.T, fake *fakeInspector) {
	t.Helper()
	orig := NewInspectorFn
	NewInspectorFn = func(python string, timeout time.Duration) envInspector {
		return fake
	}
	t.Cleanup(func() { NewInspectorFn = orig })
}

func TestEnvCmd_TextOutput(t *testing.T) {
	installFakeInspector(t, &fakeInspector{
		info: pyenv.Info{
			Python:        "python3",
			ResolvedPath:  "/usr/bin/python3",
			PythonVersion: "3.11.9",
			PipVersion:    "24.0",
		},
	})

	cfg := config.Default()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run(cfg)})

	output, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "env"}, t.TempDir())
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	for _, want := range []string{"Python Environment", "python3", "3.11.9", "24.0"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestEnvCmd_MissingPip(t *testing.T) {
	installFakeInspector(t, &fakeInspector{
		info: pyenv.Info{Python: "python3", PythonVersion: "3.11.9"},
	})

	cfg := config.Default()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run(cfg)})

	output, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "env"}, t.TempDir())
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	if !strings.Contains(output, "not available") {
		t.Errorf("expected missing pip warning, got:\n%s", output)
	}
}

func TestEnvCmd_JSONOutput(t *testing.T) {
	installFakeInspector(t, &fakeInspector{
		info: pyenv.Info{
			Python:        "python3",
			PythonVersion: "3.11.9",
			PipVersion:    "24.0",
		},
	})

	cfg := config.Default()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run(cfg)})

	output, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "env", "--format", "json"}, t.TempDir())
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if payload["python_version"] != "3.11.9" {
		t.Errorf("expected python_version 3.11.9, got %q", payload["python_version"])
	}
	if payload["pip_version"] != "24.0" {
		t.Errorf("expected pip_version 24.0, got %q", payload["pip_version"])
	}
}

func TestEnvCmd_UnavailableInterpreter(t *testing.T) {
	installFakeInspector(t, &fakeInspector{
		validateErr: errors.New(`python interpreter "python3" is not available`),
	})

	cfg := config.Default()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run(cfg)})

	err := testutils.RunCLITestAllowError(t, appCli, []string{"pipdoctor", "env"}, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("expected interpreter error, got: %v", err)
	}
}
