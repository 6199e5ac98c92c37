package report

import (
	"testing"

	"github.com/voicelab/pipdoctor/internal/pyenv"
)

func sampleResults() []pyenv.Result {
	return []pyenv.Result{
		{Package: "rvc-python", Module: "rvc", Version: pyenv.NotInstalled, Source: pyenv.SourceNone},
		{Package: "edge-tts", Module: "edge_tts", Version: "6.1.9", Source: pyenv.SourceImport},
		{Package: "torch", Module: "torch", Version: "2.1.0+cu118", Source: pyenv.SourcePip},
		{Package: "torchaudio", Module: "torchaudio", Version: "2.1.0", Source: pyenv.SourcePip},
	}
}

func TestFromResults_PreservesOrder(t *testing.T) {
	rep := FromResults(sampleResults())

	if len(rep.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(rep.Entries))
	}

	expected := []string{"rvc-python", "edge-tts", "torch", "torchaudio"}
	for i, name := range expected {
		if rep.Entries[i].Name != name {
			t.Errorf("entry %d: expected %q, got %q", i, name, rep.Entries[i].Name)
		}
	}

	if rep.MissingCount() != 1 {
		t.Errorf("expected 1 missing package, got %d", rep.MissingCount())
	}
}

func TestApplyPins(t *testing.T) {
	rep := FromResults(sampleResults())
	rep.ApplyPins(map[string]string{
		"rvc-python": "0.1.5",
		"torch":      "2.1.0",
		"torchaudio": "2.2.0",
	})

	byName := make(map[string]Entry)
	for _, e := range rep.Entries {
		byName[e.Name] = e
	}

	if byName["rvc-python"].PinStatus != PinMissing {
		t.Errorf("rvc-python: expected missing, got %q", byName["rvc-python"].PinStatus)
	}
	if byName["edge-tts"].PinStatus != PinUnpinned {
		t.Errorf("edge-tts: expected unpinned, got %q", byName["edge-tts"].PinStatus)
	}
	if byName["torch"].PinStatus != PinMatch {
		t.Errorf("torch: expected match (local segment ignored), got %q", byName["torch"].PinStatus)
	}
	if byName["torchaudio"].PinStatus != PinMismatch {
		t.Errorf("torchaudio: expected mismatch, got %q", byName["torchaudio"].PinStatus)
	}

	if !rep.Pinned() {
		t.Error("expected report to be pinned")
	}
	if rep.MismatchCount() != 2 {
		t.Errorf("expected 2 failed pin checks, got %d", rep.MismatchCount())
	}
}

func TestApplyPins_NormalizedNames(t *testing.T) {
	rep := FromResults([]pyenv.Result{
		{Package: "edge-tts", Version: "6.1.9", Source: pyenv.SourcePip},
	})
	// Pin maps are keyed by normalized name; "Edge_TTS" in a manifest
	// normalizes to "edge-tts".
	rep.ApplyPins(map[string]string{"edge-tts": "6.1.9"})

	if rep.Entries[0].PinStatus != PinMatch {
		t.Errorf("expected match, got %q", rep.Entries[0].PinStatus)
	}
}
