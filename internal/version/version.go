// SPDX-License-Identifier: MIT

// Package version carries build metadata, populated via ldflags.
package version

import "fmt"

var (
	// Version is the release tag, overridden by the build system.
	Version = "v0.1.0"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the full build identifier for --version output.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
