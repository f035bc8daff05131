// Package version carries build metadata stamped in via -ldflags.
package version

// Set at build time with:
//
//	go build -ldflags "-X github.com/pypack-dev/pypack/pkg/version.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
