package version

// Version represents the current version of docsight
const Version = "0.3.1"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "docsight version " + Version
}
