package testutils

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
)

// BuildCLIForTests wraps commands in a minimal root command so they can be
// exercised without the full CLI wiring.
func BuildCLIForTests(commands []*cli.Command) *cli.Command {
	return &cli.Command{
		Name:     "pipdoctor",
		Commands: commands,
	}
}

// RunCLITest runs the CLI with the given args from dir, failing the test
// on error.
func RunCLITest(t *testing.T, app *cli.Command, args []string, dir string) {
	t.Helper()
	if err := RunCLITestAllowError(t, app, args, dir); err != nil {
		t.Fatalf("cli run failed: %v", err)
	}
}

// RunCLITestAllowError runs the CLI with the given args from dir and
// returns the error, if any.
func RunCLITestAllowError(t *testing.T, app *cli.Command, args []string, dir string) error {
	t.Helper()
	if dir != "" {
		chdir(t, dir)
	}
	return app.Run(context.Background(), args)
}

// CaptureStdout captures everything fn writes to stdout.
func CaptureStdout(fn func()) (string, error) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = w

	fn()

	if err := w.Close(); err != nil {
		os.Stdout = orig
		return "", err
	}
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WriteTempConfig writes a config file into dir and returns its path.
func WriteTempConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

// WriteTempFile writes an arbitrary file into dir and returns its path.
func WriteTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file %s: %v", name, err)
	}
	return path
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(orig)
	})
}
