package printer

import (
	"strings"
	"testing"
)

func TestStylesRenderPlainTextWithoutColor(t *testing.T) {
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })

	tests := []struct {
		name string
		fn   func(string) string
	}{
		{"Faint", Faint},
		{"Bold", Bold},
		{"Success", Success},
		{"Error", Error},
		{"Warning", Warning},
		{"Info", Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn("hello"); got != "hello" {
				t.Errorf("expected plain %q, got %q", "hello", got)
			}
		})
	}
}

func TestGlyphs(t *testing.T) {
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })

	if !strings.Contains(GlyphInstalled(), "✓") {
		t.Error("expected installed glyph to contain check mark")
	}
	if !strings.Contains(GlyphMissing(), "✗") {
		t.Error("expected missing glyph to contain cross")
	}
	if !strings.Contains(GlyphMismatch(), "⚠") {
		t.Error("expected mismatch glyph to contain warning sign")
	}
}
