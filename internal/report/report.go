package report

import (
	"github.com/voicelab/pipdoctor/internal/pins"
	"github.com/voicelab/pipdoctor/internal/pyenv"
	"github.com/voicelab/pipdoctor/internal/pyver"
)

// PinStatus describes how a resolved version relates to a pinned one.
type PinStatus string

const (
	// PinUnchecked means no pin file was consulted.
	PinUnchecked PinStatus = ""

	// PinMatch means the resolved version satisfies the pin.
	PinMatch PinStatus = "match"

	// PinMismatch means a different version is installed than pinned.
	PinMismatch PinStatus = "mismatch"

	// PinMissing means the package is pinned but not installed.
	PinMissing PinStatus = "missing"

	// PinUnpinned means the pin file does not mention the package.
	PinUnpinned PinStatus = "unpinned"
)

// Entry is the resolution outcome for one package.
type Entry struct {
	Name      string
	Module    string
	Version   string
	Source    pyenv.Source
	Pin       string
	PinStatus PinStatus
}

// Installed reports whether a version was resolved for this entry.
func (e Entry) Installed() bool {
	return e.Source != pyenv.SourceNone
}

// Report is an ordered collection of package resolution results.
type Report struct {
	Entries []Entry
}

// FromResults builds a Report from resolver results, preserving order.
func FromResults(results []pyenv.Result) *Report {
	entries := make([]Entry, len(results))
	for i, res := range results {
		entries[i] = Entry{
			Name:    res.Package,
			Module:  res.Module,
			Version: res.Version,
			Source:  res.Source,
		}
	}
	return &Report{Entries: entries}
}

// ApplyPins annotates every entry with its pin status. The pin map is
// keyed by normalized distribution name.
func (r *Report) ApplyPins(pinned map[string]string) {
	for i := range r.Entries {
		entry := &r.Entries[i]
		pin, ok := pinned[pins.NormalizeName(entry.Name)]
		if !ok {
			entry.PinStatus = PinUnpinned
			continue
		}
		entry.Pin = pin
		switch {
		case !entry.Installed():
			entry.PinStatus = PinMissing
		case pyver.MatchesPin(entry.Version, pin):
			entry.PinStatus = PinMatch
		default:
			entry.PinStatus = PinMismatch
		}
	}
}

// MissingCount returns the number of packages that resolved to the sentinel.
func (r *Report) MissingCount() int {
	count := 0
	for _, e := range r.Entries {
		if !e.Installed() {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of entries whose pin check failed,
// counting both mismatched and pinned-but-missing packages.
func (r *Report) MismatchCount() int {
	count := 0
	for _, e := range r.Entries {
		if e.PinStatus == PinMismatch || e.PinStatus == PinMissing {
			count++
		}
	}
	return count
}

// Pinned reports whether any entry carries pin information.
func (r *Report) Pinned() bool {
	for _, e := range r.Entries {
		if e.PinStatus != PinUnchecked {
			return true
		}
	}
	return false
}
