package initialize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/testutils"
)

func TestMain(m *testing.M) {
	printer.SetNoColor(true)
	m.Run()
}

func TestInitCmd_WritesDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run()})

	output, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "init", "--yes"}, tmpDir)
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	if !strings.Contains(output, "Created "+config.DefaultConfigFile) {
		t.Errorf("expected success message, got:\n%s", output)
	}

	cfg, err := config.LoadFrom(filepath.Join(tmpDir, config.DefaultConfigFile))
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if len(cfg.Packages) != 4 {
		t.Errorf("expected 4 packages, got %d", len(cfg.Packages))
	}
}

func TestInitCmd_ExistingFileWithoutForce(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.WriteTempConfig(t, tmpDir, "packages:\n  - name: torch\n")

	appCli := testutils.BuildCLIForTests([]*cli.Command{Run()})

	err := testutils.RunCLITestAllowError(t, appCli, []string{"pipdoctor", "init", "--yes"}, tmpDir)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already-exists error, got: %v", err)
	}
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	testutils.WriteTempConfig(t, tmpDir, "packages:\n  - name: torch\n")

	appCli := testutils.BuildCLIForTests([]*cli.Command{Run()})

	_, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "init", "--yes", "--force"}, tmpDir)
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	cfg, err := config.LoadFrom(filepath.Join(tmpDir, config.DefaultConfigFile))
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if len(cfg.Packages) != 4 {
		t.Errorf("expected config overwritten with defaults, got %d packages", len(cfg.Packages))
	}
}

// fakePrompter returns a fixed selection.
type fakePrompter struct {
	selection []string
}

func (f *fakePrompter) MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error) {
	return f.selection, nil
}

func TestSelectPackages_FiltersSelection(t *testing.T) {
	orig := NewPrompterFn
	NewPrompterFn = func() Prompter {
		return &fakePrompter{selection: []string{"torch", "torchaudio"}}
	}
	t.Cleanup(func() { NewPrompterFn = orig })

	selected, err := selectPackages(config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(selected) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(selected))
	}
	if selected[0].Name != "torch" || selected[1].Name != "torchaudio" {
		t.Errorf("unexpected selection: %+v", selected)
	}
}

func TestSelectPackages_EmptySelection(t *testing.T) {
	orig := NewPrompterFn
	NewPrompterFn = func() Prompter {
		return &fakePrompter{selection: nil}
	}
	t.Cleanup(func() { NewPrompterFn = orig })

	if _, err := selectPackages(config.Default()); err == nil || !strings.Contains(err.Error(), "no packages selected") {
		t.Fatalf("expected no-packages error, got: %v", err)
	}
}

func TestInitCmd_WrittenConfigRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	appCli := testutils.BuildCLIForTests([]*cli.Command{Run()})

	_, err := testutils.CaptureStdout(func() {
		testutils.RunCLITest(t, appCli, []string{"pipdoctor", "init", "--yes"}, tmpDir)
	})
	if err != nil {
		t.Fatalf("Failed to capture stdout: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, config.DefaultConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rvc-python", "edge_tts", "torchaudio"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected written config to contain %q, got:\n%s", want, string(data))
		}
	}
}
