package testutil

import (
	"io/fs"

	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/stretchr/testify/mock"
)

// FaultFS wraps a filesystem and routes its mutating calls through a
// testify mock. An expectation returning a non-nil error makes the call
// fail with that error; returning nil forwards the call to the wrapped
// filesystem.
//
// Expectations match in registration order, so register failures first
// and finish with PassThrough.
type FaultFS struct {
	filesystem.FS
	mock.Mock
}

// NewFaultFS wraps inner
func NewFaultFS(inner filesystem.FS) *FaultFS {
	return &FaultFS{FS: inner}
}

// PassThrough forwards every call that no earlier expectation matched
func (f *FaultFS) PassThrough() *FaultFS {
	f.On("Remove", mock.Anything).Return(nil)
	f.On("Rename", mock.Anything, mock.Anything).Return(nil)
	f.On("Link", mock.Anything, mock.Anything).Return(nil)
	f.On("Symlink", mock.Anything, mock.Anything).Return(nil)
	f.On("Chmod", mock.Anything, mock.Anything).Return(nil)
	return f
}

func (f *FaultFS) Remove(name string) error {
	if err := f.Called(name).Error(0); err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.Called(oldpath, newpath).Error(0); err != nil {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: err}
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) Link(oldname, newname string) error {
	if err := f.Called(oldname, newname).Error(0); err != nil {
		return &fs.PathError{Op: "link", Path: newname, Err: err}
	}
	return f.FS.Link(oldname, newname)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.Called(oldname, newname).Error(0); err != nil {
		return &fs.PathError{Op: "symlink", Path: newname, Err: err}
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Chmod(name string, mode fs.FileMode) error {
	if err := f.Called(name, mode).Error(0); err != nil {
		return &fs.PathError{Op: "chmod", Path: name, Err: err}
	}
	return f.FS.Chmod(name, mode)
}
