// Package paths centralizes the path conventions of a runfiles tree.
//
// Manifest paths are slash-separated and relative to the output root.
// They stay in that form inside the desired-state model and are only
// converted to OS paths at the filesystem boundary, via Join.
//
// Link targets are kept verbatim. IsAbsTarget decides whether a target
// is absolute, accepting Windows drive-letter forms on every platform
// since manifests are written on one host and consumed on another.
package paths
