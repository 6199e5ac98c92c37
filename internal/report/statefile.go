package report

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/sjson"
	"github.com/voicelab/pipdoctor/internal/core"
)

// StateWriter updates a JSON state file in place with resolved versions.
// Only the per-package fields are touched; unrelated content, structure
// and field order in the file are preserved.
type StateWriter struct {
	fs core.FileSystem
}

// NewStateWriter creates a StateWriter with the given filesystem.
func NewStateWriter(fs core.FileSystem) *StateWriter {
	return &StateWriter{fs: fs}
}

// Write records the report under the "packages" key of the JSON file at
// path. A missing file is created with just the packages object.
func (w *StateWriter) Write(ctx context.Context, path string, r *Report) error {
	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read state file %q: %w", path, err)
		}
		data = []byte("{}")
	}

	for _, entry := range r.Entries {
		data, err = sjson.SetBytes(data, "packages."+escapeKey(entry.Name), entry.Version)
		if err != nil {
			return fmt.Errorf("failed to set version for %q in %q: %w", entry.Name, path, err)
		}
	}

	// Ensure trailing newline
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if err := w.fs.WriteFile(ctx, path, data, core.PermOwnerRW); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}

	return nil
}

// escapeKey escapes sjson path separators in a package name.
func escapeKey(name string) string {
	return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(name)
}
