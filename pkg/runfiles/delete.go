package runfiles

import (
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
	"github.com/rs/zerolog"
)

// DefaultTrashAttempts bounds how many unique names a trash move tries
const DefaultTrashAttempts = 3

// Trash receives entries that cannot be removed in place, typically files
// held open on platforms that forbid deleting them.
type Trash struct {
	fs       filesystem.FS
	dir      string
	attempts int
	name     func() string
	logger   zerolog.Logger
}

// NewTrash returns a trash rooted at dir (an OS path). The directory is
// created on first use.
func NewTrash(fsys filesystem.FS, dir string, attempts int) *Trash {
	if attempts < 1 {
		attempts = DefaultTrashAttempts
	}
	return &Trash{
		fs:       fsys,
		dir:      dir,
		attempts: attempts,
		name:     uniqueTrashName,
		logger:   logging.GetLogger("runfiles.trash"),
	}
}

// Dir returns the trash directory
func (t *Trash) Dir() string {
	return t.dir
}

// Move renames path into the trash under a fresh random name and returns
// the new location. A name collision or an access-denied error is
// retried with another name; any other failure, or running out of
// attempts, is a PLATFORM_LINK error.
func (t *Trash) Move(path string) (string, error) {
	if _, err := t.fs.Stat(t.dir); err != nil {
		if mkErr := t.fs.Mkdir(t.dir, 0o777); mkErr != nil {
			return "", errors.WrapIO(mkErr, "creating", t.dir)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		dest := filepath.Join(t.dir, t.name())
		err := t.fs.Rename(path, dest)
		if err == nil {
			t.logger.Debug().
				Str("path", path).
				Str("trash", dest).
				Int("attempt", attempt).
				Msg("Moved to trash")
			return dest, nil
		}
		lastErr = err
		if !errors.Is(err, fs.ErrExist) && !errors.Is(err, fs.ErrPermission) {
			return "", errors.Wrapf(err, errors.ErrPlatformLink, "moving '%s' to '%s'", path, dest).
				WithDetail("op", "move to trash").
				WithDetail("path", path)
		}
	}

	return "", errors.Wrapf(lastErr, errors.ErrPlatformLink,
		"moving '%s' to trash after %d attempts", path, t.attempts).
		WithDetail("op", "move to trash").
		WithDetail("path", path).
		WithDetail("attempts", t.attempts)
}

func uniqueTrashName() string {
	return fmt.Sprintf("%d%d", time.Now().UnixMilli(), rand.IntN(0xFFFF))
}

// Deleter removes entries from the tree. Directories are emptied
// depth-first after their permissions are repaired.
type Deleter struct {
	fs     filesystem.FS
	root   string
	trash  *Trash
	report *Report
	logger zerolog.Logger
}

// NewDeleter returns a deleter for the tree at root. A nil trash makes
// every failed unlink fatal.
func NewDeleter(fsys filesystem.FS, root string, trash *Trash, report *Report) *Deleter {
	return &Deleter{
		fs:     fsys,
		root:   root,
		trash:  trash,
		report: report,
		logger: logging.GetLogger("runfiles.delete"),
	}
}

// DelTree removes the entry at the manifest-relative path rel, which was
// observed as kind.
func (d *Deleter) DelTree(rel string, kind manifest.Kind) error {
	abs := paths.Join(d.root, rel)

	if kind != manifest.Directory {
		err := d.fs.Remove(abs)
		if err == nil {
			return nil
		}
		if d.trash == nil {
			return errors.WrapIO(err, "unlinking", abs)
		}
		d.logger.Debug().
			Err(err).
			Str("path", rel).
			Str("trash", d.trash.Dir()).
			Msg("Unlink blocked, falling back to trash")
		if _, err := d.trash.Move(abs); err != nil {
			return err
		}
		d.report.trashed(rel)
		return nil
	}

	changed, err := filesystem.EnsureOwnerRWX(d.fs, abs)
	if err != nil {
		return errors.WrapIO(err, "chmod", abs)
	}
	if changed {
		d.report.repaired(rel)
	}

	for entry, err := range d.fs.ReadDirSeq(abs) {
		if err != nil {
			return errors.WrapIO(err, "readdir", abs)
		}
		child := paths.Child(rel, entry.Name())
		if err := d.DelTree(child, manifest.KindOf(entry.Type())); err != nil {
			return err
		}
	}

	if err := d.fs.Remove(abs); err != nil {
		return errors.WrapIO(err, "rmdir", abs)
	}
	return nil
}
