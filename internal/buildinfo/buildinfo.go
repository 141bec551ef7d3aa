// Package buildinfo carries the build identity stamped in via -ldflags.
package buildinfo

var (
	// Version is set at build time via -ldflags.
	Version = "dev"

	// Commit is set at build time via -ldflags.
	Commit = "unknown"
)

// Short returns a compact build identifier for titles and logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}
