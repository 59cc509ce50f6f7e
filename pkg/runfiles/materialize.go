package runfiles

import (
	"context"
	"io/fs"
	"syscall"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/links"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
	"github.com/rs/zerolog"
)

const (
	dirPerm   fs.FileMode = 0o777
	emptyPerm fs.FileMode = 0o555
)

// Materializer creates every entry still left in the model
type Materializer struct {
	fs     filesystem.FS
	root   string
	model  *manifest.Model
	linker *links.Linker
	dryRun bool
	report *Report
	logger zerolog.Logger
}

// NewMaterializer returns a materializer for the tree at root
func NewMaterializer(fsys filesystem.FS, root string, model *manifest.Model, linker *links.Linker, report *Report) *Materializer {
	return &Materializer{
		fs:     fsys,
		root:   root,
		model:  model,
		linker: linker,
		report: report,
		logger: logging.GetLogger("runfiles.materialize"),
	}
}

// DryRun makes the materializer record entries without creating them
func (m *Materializer) DryRun(v bool) {
	m.dryRun = v
}

// Materialize creates the remaining entries in ascending path order, so
// every directory exists before its children. Creation is exclusive: a
// path that already exists at this point is an error.
func (m *Materializer) Materialize(ctx context.Context) error {
	m.logger.Debug().
		Int("entries", m.model.Len()).
		Bool("compatible", m.linker.Compatible()).
		Bool("dry_run", m.dryRun).
		Msg("Materializing")
	for path, entry := range m.model.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		created, err := m.create(path, entry)
		if err != nil {
			return err
		}
		m.report.created(created)
	}
	return nil
}

func (m *Materializer) create(path string, entry manifest.Entry) (Created, error) {
	abs := paths.Join(m.root, path)
	created := Created{Path: path, Kind: entry.Kind.String()}

	if !m.dryRun {
		if err := m.checkParent(path, abs); err != nil {
			return created, err
		}
	}

	switch entry.Kind {
	case manifest.Directory:
		if !m.dryRun {
			if err := m.fs.Mkdir(abs, dirPerm); err != nil {
				return created, errors.WrapIO(err, "mkdir", abs)
			}
		}
	case manifest.EmptyFile:
		if !m.dryRun {
			if err := m.fs.CreateExclusive(abs, emptyPerm); err != nil {
				return created, errors.WrapIO(err, "creating empty file", abs)
			}
		}
	case manifest.Link:
		created.Target = entry.Target
		var strategy links.Strategy
		var err error
		if m.dryRun {
			strategy, err = m.linker.Plan(entry.Target)
		} else {
			strategy, err = m.linker.Create(entry.Target, abs)
		}
		if err != nil {
			return created, err
		}
		created.Strategy = strategy.String()
	default:
		return created, errors.Newf(errors.ErrInternal, "unknown entry kind %s at '%s'", entry.Kind, path)
	}

	m.logger.Trace().
		Str("path", path).
		Stringer("entry", entry).
		Bool("dry_run", m.dryRun).
		Msg("Created")
	return created, nil
}

// checkParent refuses to create an entry whose parent is not a real
// directory. A manifest can declare a link or a file at a path that is
// also an ancestor of another entry; creating the child through a link
// would write outside the tree.
func (m *Materializer) checkParent(path, abs string) error {
	parent, ok := paths.Parent(path)
	if !ok {
		return nil
	}
	parentAbs := paths.Join(m.root, parent)
	info, err := m.fs.Lstat(parentAbs)
	if err != nil {
		return errors.WrapIO(err, "lstat", parentAbs)
	}
	if !info.IsDir() {
		err := &fs.PathError{Op: "lstat", Path: parentAbs, Err: syscall.ENOTDIR}
		return errors.WrapIO(err, "creating", abs).WithDetail("parent", parent)
	}
	return nil
}
