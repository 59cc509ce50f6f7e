// Package manifest parses runfiles manifests into a desired-state model.
//
// A manifest is line oriented. Each line assigns a relative link path to
// an optional target, separated by a single space:
//
//	ws/pkg/data.txt /abs/path/to/data.txt
//	ws/pkg/__init__.py
//
// A non-empty target yields a Link entry, an empty target an EmptyFile
// placeholder. Every ancestor of a path is added to the model as a
// Directory unless something already occupies it.
//
// Parse also copies every input line verbatim to a staging writer; that
// copy becomes the tree's own MANIFEST once the tree is built.
package manifest
