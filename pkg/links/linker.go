package links

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
	"github.com/rs/zerolog"
)

// Linker creates link entries with the strategy Select picks
type Linker struct {
	fs         filesystem.FS
	root       string
	compatible bool
	logger     zerolog.Logger
}

// NewLinker returns a linker for the tree at root. Relative targets are
// resolved against root whenever the target itself has to be inspected
// or hard linked; symbolic links always store the target verbatim.
func NewLinker(fsys filesystem.FS, root string, compatible bool) *Linker {
	return &Linker{
		fs:         fsys,
		root:       root,
		compatible: compatible,
		logger:     logging.GetLogger("links"),
	}
}

// Compatible reports whether the linker runs in compatibility mode
func (l *Linker) Compatible() bool {
	return l.compatible
}

// Plan returns the strategy Create would use for target without creating
// anything.
func (l *Linker) Plan(target string) (Strategy, error) {
	strategy, err := Select(l.resolve(target), l.compatible, l.fs.Stat)
	if err != nil {
		return 0, errors.WrapIO(err, "stating file", target)
	}
	return strategy, nil
}

// Create materializes a link at linkPath (an OS path) pointing at target
// and returns the strategy it used.
func (l *Linker) Create(target, linkPath string) (Strategy, error) {
	strategy, err := l.Plan(target)
	if err != nil {
		return 0, err
	}

	switch strategy {
	case Hardlink:
		err = l.fs.Link(l.resolve(target), linkPath)
	default:
		err = l.fs.Symlink(target, linkPath)
	}
	if err != nil {
		code := errors.ErrIO
		if strategy != PlainSymlink {
			code = errors.ErrPlatformLink
		}
		return strategy, errors.Wrapf(err, code, "%s '%s' -> '%s'", verb(strategy), linkPath, target).
			WithDetail("op", verb(strategy)).
			WithDetail("path", linkPath).
			WithDetail("target", target)
	}

	l.logger.Trace().
		Str("path", linkPath).
		Str("target", target).
		Stringer("strategy", strategy).
		Msg("Link created")
	return strategy, nil
}

// Satisfies reports whether an existing entry at linkPath, observed as
// actual, already provides a link to target. A symbolic link must store
// exactly target. In compatibility mode a regular file that is the same
// file as the target (a hard link made by an earlier run) also counts.
func (l *Linker) Satisfies(linkPath string, actual manifest.Entry, target string) bool {
	if actual.Kind == manifest.Link {
		return actual.Target == target
	}
	if !l.compatible || actual.Kind != manifest.EmptyFile {
		return false
	}

	linkInfo, err := l.fs.Lstat(linkPath)
	if err != nil {
		return false
	}
	targetInfo, err := l.fs.Stat(l.resolve(target))
	if err != nil {
		return false
	}
	return os.SameFile(linkInfo, targetInfo)
}

func (l *Linker) resolve(target string) string {
	if paths.IsAbsTarget(target) || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(l.root, filepath.FromSlash(target))
}

func verb(s Strategy) string {
	switch s {
	case Hardlink:
		return "hard linking"
	case JunctionEmulatedSymlink:
		return "creating junction"
	default:
		return "symlinking"
	}
}
