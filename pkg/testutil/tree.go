package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tree describes a directory tree by slash-separated relative path. Values
// are "dir" for directories, "file" for regular files and "-> target" for
// symbolic links.
type Tree map[string]string

const (
	Dir  = "dir"
	File = "file"
)

// Link returns the Tree value for a symbolic link to target
func Link(target string) string {
	return "-> " + target
}

// Snapshot walks root and records every entry below it. Symbolic links are
// recorded, never followed.
func Snapshot(t *testing.T, root string) Tree {
	t.Helper()

	tree := Tree{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel] = Link(target)
		case d.IsDir():
			tree[rel] = Dir
		default:
			tree[rel] = File
		}
		return nil
	})
	require.NoError(t, err, "snapshot of %s", root)
	return tree
}

// AssertTree checks that root contains exactly the entries in want
func AssertTree(t *testing.T, root string, want Tree) {
	t.Helper()
	assert.Equal(t, want, Snapshot(t, root))
}
