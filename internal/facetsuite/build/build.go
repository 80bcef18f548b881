// Package build holds version information set at link time, e.g.,
// -ldflags "-X github.com/G-Research/facetsuite/internal/facetsuite/build.ReleaseVersion=v0.1.0".
package build

var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	GoVersion      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
)
