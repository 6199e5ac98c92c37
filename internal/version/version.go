package version

// version is the pipdoctor release version. Overridden at build time via
// -ldflags "-X github.com/voicelab/pipdoctor/internal/version.version=...".
var version = "0.1.0"

// GetVersion returns the current pipdoctor version string.
func GetVersion() string {
	return version
}
