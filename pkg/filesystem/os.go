package filesystem

import (
	"io"
	"io/fs"
	"iter"
	"os"
)

// readDirBatch bounds how many entries a listing pulls per read
const readDirBatch = 128

// osFS implements FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() FS {
	return &osFS{}
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (o *osFS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

func (o *osFS) ReadDirSeq(name string) iter.Seq2[fs.DirEntry, error] {
	consumed := false
	return func(yield func(fs.DirEntry, error) bool) {
		if consumed {
			yield(nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrListingConsumed})
			return
		}
		consumed = true

		f, err := os.Open(name)
		if err != nil {
			yield(nil, err)
			return
		}
		defer func() {
			_ = f.Close()
		}()

		for {
			batch, err := f.ReadDir(readDirBatch)
			for _, entry := range batch {
				if entry.Name() == "." || entry.Name() == ".." {
					continue
				}
				if !yield(entry, nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

func (o *osFS) Mkdir(name string, perm fs.FileMode) error {
	return os.Mkdir(name, perm)
}

func (o *osFS) CreateExclusive(name string, perm fs.FileMode) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	return f.Close()
}

func (o *osFS) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func (o *osFS) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (o *osFS) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func (o *osFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

func (o *osFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

func (o *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (o *osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
