package runfiles

import (
	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
)

// Committer publishes the staged manifest copy as the canonical manifest.
// The rename is the only step that makes a run visible as complete.
type Committer struct {
	fs        filesystem.FS
	staged    string
	canonical string
}

// NewCommitter returns a committer renaming staged over canonical (both OS
// paths).
func NewCommitter(fsys filesystem.FS, staged, canonical string) *Committer {
	return &Committer{fs: fsys, staged: staged, canonical: canonical}
}

// Commit atomically replaces the canonical manifest
func (c *Committer) Commit() error {
	if err := c.fs.Rename(c.staged, c.canonical); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "renaming '%s' to '%s'", c.staged, c.canonical).
			WithDetails(map[string]interface{}{
				"op":   "renaming",
				"path": c.staged,
				"to":   c.canonical,
			})
	}
	return nil
}
