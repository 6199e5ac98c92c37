package pyver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version represents a Python package version in the common PEP 440 shape
// (release segments, optional pre/post/dev suffix, optional local segment).
type Version struct {
	Release []int
	Pre     string
	Post    int
	Dev     int
	Local   string
}

var (
	// versionRegex matches the version shapes pip actually reports for
	// mainstream packages, with an optional "v" prefix. It captures:
	//   1. Dotted release segments (e.g., "2.1.0")
	//   2. (optional) Pre-release suffix (e.g., "rc1", "a2", "b3")
	//   3. (optional) Post-release number
	//   4. (optional) Dev-release number
	//   5. (optional) Local segment (e.g., "cu118")
	versionRegex = regexp.MustCompile(
		`^v?([0-9]+(?:\.[0-9]+)*)` + // release segments
			`(?:[-._]?(a|b|c|rc|alpha|beta|pre|preview)\.?([0-9]*))?` + // optional pre-release
			`(?:[-._]?post\.?([0-9]+))?` + // optional post-release
			`(?:[-._]?dev\.?([0-9]+))?` + // optional dev-release
			`(?:\+([0-9A-Za-z.]+))?$`, // optional local segment
	)

	// errInvalidVersion is returned when a version string does not conform
	// to the expected format.
	errInvalidVersion = errors.New("invalid version format")
)

// maxVersionLength is the maximum allowed length for a version string.
// This prevents potential ReDoS attacks on the regex parser.
const maxVersionLength = 128

// unset marks absent post/dev components.
const unset = -1

// Parse parses a Python package version string and returns a Version.
//
// Supported formats include:
//   - "2.1.0" (plain release)
//   - "2.1.0+cu118" (with local segment, common for torch builds)
//   - "1.2.3rc1", "1.2.3.post1", "1.2.3.dev4"
//   - "6.1.9" and short forms like "7.0"
//
// Returns errInvalidVersion (wrapped) when the input exceeds
// maxVersionLength or does not match the expected pattern.
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, errInvalidVersion
	}
	if len(trimmed) > maxVersionLength {
		return Version{}, fmt.Errorf("%w: version string exceeds maximum length of %d", errInvalidVersion, maxVersionLength)
	}

	matches := versionRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return Version{}, errInvalidVersion
	}

	segments := strings.Split(matches[1], ".")
	release := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return Version{}, fmt.Errorf("%w: invalid release segment %q", errInvalidVersion, seg)
		}
		release[i] = n
	}

	v := Version{
		Release: release,
		Post:    unset,
		Dev:     unset,
		Local:   matches[6],
	}

	if matches[2] != "" {
		v.Pre = matches[2]
		if matches[3] != "" {
			v.Pre += matches[3]
		}
	}
	if matches[4] != "" {
		n, err := strconv.Atoi(matches[4])
		if err != nil {
			return Version{}, fmt.Errorf("%w: invalid post-release number: %s", errInvalidVersion, err.Error())
		}
		v.Post = n
	}
	if matches[5] != "" {
		n, err := strconv.Atoi(matches[5])
		if err != nil {
			return Version{}, fmt.Errorf("%w: invalid dev-release number: %s", errInvalidVersion, err.Error())
		}
		v.Dev = n
	}

	return v, nil
}

// String returns the canonical string representation of the version.
func (v Version) String() string {
	var sb strings.Builder
	sb.Grow(20) // Pre-allocate for typical version string length
	sb.WriteString(v.ReleaseString())
	if v.Pre != "" {
		sb.WriteString(v.Pre)
	}
	if v.Post != unset {
		sb.WriteString(".post")
		sb.WriteString(strconv.Itoa(v.Post))
	}
	if v.Dev != unset {
		sb.WriteString(".dev")
		sb.WriteString(strconv.Itoa(v.Dev))
	}
	if v.Local != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Local)
	}
	return sb.String()
}

// ReleaseString returns just the dotted release segments (e.g., "2.1.0").
func (v Version) ReleaseString() string {
	parts := make([]string, len(v.Release))
	for i, n := range v.Release {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// EqualRelease reports whether two versions share the same release segments,
// ignoring pre/post/dev suffixes and local segments. Trailing zero segments
// are insignificant, so "2.1" equals "2.1.0".
func (v Version) EqualRelease(other Version) bool {
	longest := len(v.Release)
	if len(other.Release) > longest {
		longest = len(other.Release)
	}
	for i := 0; i < longest; i++ {
		a, b := 0, 0
		if i < len(v.Release) {
			a = v.Release[i]
		}
		if i < len(other.Release) {
			b = other.Release[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// MatchesPin reports whether an installed version satisfies an exact pin.
// The comparison ignores the local segment of the installed version, so
// "2.1.0+cu118" matches the pin "2.1.0". When either side fails to parse,
// it falls back to a plain string comparison.
func MatchesPin(installed, pinned string) bool {
	iv, ierr := Parse(installed)
	pv, perr := Parse(pinned)
	if ierr != nil || perr != nil {
		return strings.TrimSpace(installed) == strings.TrimSpace(pinned)
	}

	if !iv.EqualRelease(pv) {
		return false
	}
	if iv.Pre != pv.Pre || iv.Post != pv.Post || iv.Dev != pv.Dev {
		return false
	}
	// Local segments only disqualify when the pin itself carries one.
	if pv.Local != "" && iv.Local != pv.Local {
		return false
	}
	return true
}
