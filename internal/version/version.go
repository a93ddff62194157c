// Package version carries build-time version metadata, set via ldflags:
//
//	go build -ldflags "-X github.com/KamilPietrzak/blogbuild/internal/version.Version=v1.2.0"
package version

// Version is the application version.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version, with the commit appended when set.
func String() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
