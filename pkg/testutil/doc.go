// Package testutil provides utilities for testing build-runfiles
// components.
//
// Key components:
//   - Workspace: an isolated temp directory holding a manifest, an output
//     directory and real link targets
//   - Snapshot and AssertTree: compare a directory tree against an
//     expected layout
//   - FaultFS: a filesystem wrapper that fails chosen calls, built on
//     testify's mock package
//
// All trees live under t.TempDir() and are removed when the test ends.
package testutil
