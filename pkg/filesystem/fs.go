package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"iter"
)

// ErrListingConsumed is yielded when a directory listing is ranged over
// a second time. Listings are single-pass.
var ErrListingConsumed = errors.New("directory listing already consumed")

// FS is the filesystem interface required for runfiles operations
type FS interface {
	// Inspection
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)

	// ReadDirSeq lists the immediate children of a directory, excluding
	// "." and "..". The sequence opens the directory lazily, yields a
	// non-nil error at most once and then stops.
	ReadDirSeq(name string) iter.Seq2[fs.DirEntry, error]

	// Creation
	Mkdir(name string, perm fs.FileMode) error
	CreateExclusive(name string, perm fs.FileMode) error
	Create(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	Symlink(oldname, newname string) error
	Link(oldname, newname string) error

	// Mutation
	Chmod(name string, mode fs.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
}
