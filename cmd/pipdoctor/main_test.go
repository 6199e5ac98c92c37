package main

import (
	"os"
	"strings"
	"testing"

	"github.com/voicelab/pipdoctor/internal/testutils"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestRunCLI_InvalidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.WriteTempConfig(t, tmpDir, "packages: [\n")
	chdir(t, tmpDir)

	err := runCLI([]string{"pipdoctor", "list"})
	if err == nil {
		t.Fatal("expected error from malformed config, got nil")
	}
}

func TestRunCLI_ListWithDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	output, err := testutils.CaptureStdout(func() {
		if runErr := runCLI([]string{"pipdoctor", "--no-color", "list"}); runErr != nil {
			t.Errorf("unexpected error: %v", runErr)
		}
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	if !strings.Contains(output, "rvc-python") {
		t.Errorf("expected default package listing, got:\n%s", output)
	}
}
