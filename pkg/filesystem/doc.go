// Package filesystem provides the filesystem capability used to build
// runfiles trees.
//
// FS is the narrow set of calls the reconciler, deleter, materializer and
// committer need. NewOS returns the implementation backed by the os
// package; tests wrap it to inject failures.
//
// Directory listings are exposed as lazy sequences (ReadDirSeq) rather
// than slices so that very wide directories are never held in memory at
// once and so that deleting an entry while iterating its parent works.
package filesystem
