// Package links decides how a manifest link entry is materialized and
// applies that decision.
//
// By default every link is a plain symbolic link, dangling or not. In
// compatibility mode, for filesystems and platforms that mishandle
// symbolic links to executables, directory targets get a junction
// (emulated with a symbolic link) and everything else gets a hard link.
package links

import (
	"fmt"
	"io/fs"
)

// Strategy is a way of materializing a link entry
type Strategy int

const (
	PlainSymlink Strategy = iota
	Hardlink
	JunctionEmulatedSymlink
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case PlainSymlink:
		return "symlink"
	case Hardlink:
		return "hardlink"
	case JunctionEmulatedSymlink:
		return "junction"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// StatFunc stats a link target, following symbolic links
type StatFunc func(name string) (fs.FileInfo, error)

// Select picks the strategy for a link to target. Outside compatibility
// mode it never touches the filesystem. In compatibility mode the target
// must exist: a failed stat is returned as is.
func Select(target string, compatible bool, stat StatFunc) (Strategy, error) {
	if !compatible {
		return PlainSymlink, nil
	}
	info, err := stat(target)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return JunctionEmulatedSymlink, nil
	}
	return Hardlink, nil
}
