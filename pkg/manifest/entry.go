package manifest

import (
	"fmt"
	"io/fs"
)

// Kind is the type of a tree entry
type Kind int

const (
	// EmptyFile is a placeholder regular file. On the actual side any
	// non-directory, non-link file counts as EmptyFile; contents are
	// never compared.
	EmptyFile Kind = iota
	Directory
	Link
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case EmptyFile:
		return "file"
	case Directory:
		return "directory"
	case Link:
		return "link"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf classifies a file mode the way the reconciler sees it.
func KindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return Link
	case mode.IsDir():
		return Directory
	default:
		return EmptyFile
	}
}

// Entry is one desired (or observed) tree entry. Target is only set for
// links.
type Entry struct {
	Kind   Kind
	Target string
}

// DirectoryEntry is the entry synthesized for ancestor directories
var DirectoryEntry = Entry{Kind: Directory}

// NewLink returns a link entry pointing at target
func NewLink(target string) Entry {
	return Entry{Kind: Link, Target: target}
}

// String formats the entry for logs and diagnostics
func (e Entry) String() string {
	if e.Kind == Link {
		return "link -> " + e.Target
	}
	return e.Kind.String()
}
