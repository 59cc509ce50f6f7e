// Package runfiles builds a runfiles tree: it makes an output directory
// match a manifest exactly and then publishes a copy of that manifest.
//
// A run goes through fixed stages. The manifest is parsed into a model
// while being copied to a staged file inside the output directory. The
// existing tree is then scanned, and everything that is not in the model,
// or differs from it, is deleted; entries that already match are dropped
// from the model. What is left in the model is created in path order, so
// parents always exist before children. Finally the staged copy is
// renamed over the canonical manifest.
//
// Only the final rename makes a run visible. A failed run never leaves a
// canonical manifest describing a tree it did not build, and running
// again with the same manifest is a no-op.
package runfiles
