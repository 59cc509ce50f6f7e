package runfiles

import (
	"context"
	"io/fs"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/links"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
	"github.com/rs/zerolog"
)

// Reconciler walks the existing tree and prunes everything the model does
// not describe exactly. Entries that already match are removed from the
// model so materialization only creates what is missing.
type Reconciler struct {
	fs      filesystem.FS
	root    string
	model   *manifest.Model
	linker  *links.Linker
	deleter *Deleter
	keep    map[string]manifest.Kind
	dryRun  bool
	report  *Report
	logger  zerolog.Logger
}

// NewReconciler returns a reconciler for the tree at root
func NewReconciler(fsys filesystem.FS, root string, model *manifest.Model, linker *links.Linker, deleter *Deleter, report *Report) *Reconciler {
	return &Reconciler{
		fs:      fsys,
		root:    root,
		model:   model,
		linker:  linker,
		deleter: deleter,
		keep:    make(map[string]manifest.Kind),
		report:  report,
		logger:  logging.GetLogger("runfiles.reconcile"),
	}
}

// Keep protects an unlisted path from pruning as long as the entry on
// disk has the given kind. Model entries take precedence.
func (r *Reconciler) Keep(path string, kind manifest.Kind) {
	r.keep[path] = kind
}

// DryRun makes the reconciler record repairs and prunes without applying
// them.
func (r *Reconciler) DryRun(v bool) {
	r.dryRun = v
}

// Reconcile scans the whole tree. It stops at the first error; the tree is
// then left partially reconciled.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	return r.scan(ctx, paths.Root)
}

func (r *Reconciler) scan(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	abs := paths.Join(r.root, dir)
	if err := r.ensureDirPerms(dir, abs); err != nil {
		return err
	}

	for entry, err := range r.fs.ReadDirSeq(abs) {
		if err != nil {
			return errors.WrapIO(err, "opendir", abs)
		}
		if err := r.visit(ctx, paths.Child(dir, entry.Name()), entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) visit(ctx context.Context, path string, entry fs.DirEntry) error {
	actual, err := r.inspect(path, entry)
	if err != nil {
		return err
	}

	desired, listed := r.model.Get(path)
	switch {
	case listed && r.matches(path, actual, desired):
		r.model.Delete(path)
		if actual.Kind == manifest.Directory {
			return r.scan(ctx, path)
		}
		return nil
	case !listed && r.kept(path, actual):
		r.logger.Trace().Str("path", path).Msg("Keeping unlisted entry")
		return nil
	}

	r.logger.Debug().
		Str("path", path).
		Stringer("actual", actual).
		Bool("listed", listed).
		Msg("Pruning")
	r.report.pruned(path)
	if r.dryRun {
		return nil
	}
	return r.deleter.DelTree(path, actual.Kind)
}

func (r *Reconciler) inspect(path string, entry fs.DirEntry) (manifest.Entry, error) {
	kind := manifest.KindOf(entry.Type())
	if kind != manifest.Link {
		return manifest.Entry{Kind: kind}, nil
	}
	abs := paths.Join(r.root, path)
	target, err := r.fs.Readlink(abs)
	if err != nil {
		return manifest.Entry{}, errors.WrapIO(err, "reading symlink", abs)
	}
	return manifest.NewLink(target), nil
}

func (r *Reconciler) matches(path string, actual, desired manifest.Entry) bool {
	if desired.Kind == manifest.Link {
		return r.linker.Satisfies(paths.Join(r.root, path), actual, desired.Target)
	}
	return actual == desired
}

func (r *Reconciler) kept(path string, actual manifest.Entry) bool {
	kind, ok := r.keep[path]
	return ok && kind == actual.Kind
}

func (r *Reconciler) ensureDirPerms(dir, abs string) error {
	if r.dryRun {
		needs, err := filesystem.NeedsOwnerRWX(r.fs, abs)
		if err != nil {
			return errors.WrapIO(err, "lstat", abs)
		}
		if needs {
			r.report.repaired(dir)
		}
		return nil
	}

	changed, err := filesystem.EnsureOwnerRWX(r.fs, abs)
	if err != nil {
		return errors.WrapIO(err, "chmod", abs)
	}
	if changed {
		r.logger.Debug().Str("path", dir).Msg("Repaired directory permissions")
		r.report.repaired(dir)
	}
	return nil
}
