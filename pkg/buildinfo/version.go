// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/pkgcheck/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pkgcheck/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pkgcheck/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/pkgcheck
package buildinfo

import (
	"fmt"

	pkgio "github.com/matzehuels/pkgcheck/pkg/io"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information, including the artifact
// schema this build reads and writes.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nartifact schema: %d", Version, Commit, Date, pkgio.Schema)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\nartifact schema: %d\n", Version, Commit, Date, pkgio.Schema)
}
