// Package version holds build metadata set via -ldflags.
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// String formats the build metadata for the version command.
func String() string {
	return fmt.Sprintf("dftjob %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
