package pins

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/voicelab/pipdoctor/internal/core"
)

// Format identifies the pin file format.
type Format string

const (
	// FormatRequirements is a pip requirements file (name==version lines).
	FormatRequirements Format = "requirements"

	// FormatPyproject is a PEP 621 pyproject.toml ([project] dependencies).
	FormatPyproject Format = "pyproject"
)

// FormatForFile detects the pin file format from its name.
func FormatForFile(path string) (Format, error) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == "pyproject.toml":
		return FormatPyproject, nil
	case strings.HasSuffix(base, ".toml"):
		return FormatPyproject, nil
	case strings.HasSuffix(base, ".txt"), strings.HasSuffix(base, ".in"):
		return FormatRequirements, nil
	default:
		return "", fmt.Errorf("cannot determine pin format for %q (expected requirements .txt or pyproject.toml)", path)
	}
}

// requirementRegex matches an exact pin: "name==version", allowing an
// extras suffix ("name[extra]==version") and surrounding whitespace.
// Range specifiers (>=, ~=, !=) are deliberately not treated as pins.
var requirementRegex = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*==\s*([^\s;#]+)`)

// Reader loads pinned versions from dependency manifests.
type Reader struct {
	fs core.FileSystem
}

// NewReader creates a Reader with the given filesystem.
func NewReader(fs core.FileSystem) *Reader {
	return &Reader{fs: fs}
}

// Load reads the pin file at path, inferring the format from the filename.
// The returned map is keyed by normalized distribution name.
func (r *Reader) Load(ctx context.Context, path string) (map[string]string, error) {
	format, err := FormatForFile(path)
	if err != nil {
		return nil, err
	}

	data, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pin file %q: %w", path, err)
	}

	switch format {
	case FormatPyproject:
		return r.parsePyproject(data, path)
	default:
		return r.parseRequirements(data), nil
	}
}

// parseRequirements extracts exact pins from a requirements file. Comment
// lines, pip options (-r, --index-url) and non-exact specifiers are skipped.
func (r *Reader) parseRequirements(data []byte) map[string]string {
	result := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		matches := requirementRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		result[NormalizeName(matches[1])] = matches[2]
	}

	return result
}

// pyprojectFile is the subset of pyproject.toml consulted for pins.
type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// parsePyproject extracts exact pins from PEP 621 dependency strings in
// [project] dependencies and optional-dependencies.
func (r *Reader) parsePyproject(data []byte, path string) (map[string]string, error) {
	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML in %q: %w", path, err)
	}

	result := make(map[string]string)
	collect := func(deps []string) {
		for _, dep := range deps {
			matches := requirementRegex.FindStringSubmatch(dep)
			if matches == nil {
				continue
			}
			result[NormalizeName(matches[1])] = matches[2]
		}
	}

	collect(file.Project.Dependencies)
	for _, deps := range file.Project.OptionalDependencies {
		collect(deps)
	}

	return result, nil
}

// NormalizeName normalizes a distribution name per the packaging rules:
// lowercase, with runs of "-", "_" and "." collapsed to a single "-".
func NormalizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	prevSep := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			if !prevSep {
				sb.WriteByte('-')
			}
			prevSep = true
			continue
		}
		prevSep = false
		sb.WriteRune(r)
	}
	return sb.String()
}
