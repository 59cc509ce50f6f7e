package runfiles

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/links"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
	"github.com/rs/zerolog"
)

const (
	DefaultManifestName  = "MANIFEST"
	DefaultStagingSuffix = ".tmp"
)

// Stage is a step of a run. Each stage only starts once the previous one
// succeeded.
type Stage int

const (
	StageInit Stage = iota
	StageParse
	StagePrune
	StageMaterialize
	StageCommit
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageParse:
		return "parse"
	case StagePrune:
		return "prune"
	case StageMaterialize:
		return "materialize"
	case StageCommit:
		return "commit"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options configures a single run
type Options struct {
	// Root is the output directory. Relative roots are made absolute
	// against the working directory.
	Root string
	// ManifestPath is the input manifest (an OS path)
	ManifestPath string

	AllowRelative     bool
	UseMetadata       bool
	WindowsCompatible bool
	DryRun            bool

	// ManifestName is the canonical manifest filename inside Root; the
	// staged copy is ManifestName+StagingSuffix.
	ManifestName  string
	StagingSuffix string

	// TrashFallback moves entries that cannot be unlinked into TrashDir.
	// An empty TrashDir means DefaultTrashDir(Root).
	TrashFallback bool
	TrashDir      string
	TrashAttempts int

	// FS defaults to the OS filesystem
	FS filesystem.FS
}

// DefaultTrashDir returns the trash location for root: a hidden sibling
// directory, so the trash is never itself part of the reconciled tree.
func DefaultTrashDir(root string) string {
	return filepath.Join(filepath.Dir(root), "."+filepath.Base(root)+".trash")
}

// Creator owns the state of one run over one output directory
type Creator struct {
	opts   Options
	fs     filesystem.FS
	root   string
	stage  Stage
	report *Report
	logger zerolog.Logger
}

// New validates opts and returns a creator ready to run
func New(opts Options) (*Creator, error) {
	if opts.Root == "" {
		return nil, errors.New(errors.ErrInvalidInput, "output directory is required")
	}
	if opts.ManifestPath == "" {
		return nil, errors.New(errors.ErrInvalidInput, "input manifest is required")
	}
	if opts.ManifestName == "" {
		opts.ManifestName = DefaultManifestName
	}
	if opts.StagingSuffix == "" {
		opts.StagingSuffix = DefaultStagingSuffix
	}
	if !paths.IsNormalized(opts.ManifestName) || filepath.Base(opts.ManifestName) != opts.ManifestName {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid manifest name '%s'", opts.ManifestName)
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.WrapIO(err, "resolving", opts.Root)
	}
	if opts.TrashDir == "" {
		opts.TrashDir = DefaultTrashDir(root)
	}

	return &Creator{
		opts: opts,
		fs:   opts.FS,
		root: root,
		report: &Report{
			Root:     root,
			Manifest: opts.ManifestPath,
			DryRun:   opts.DryRun,
		},
		logger: logging.GetLogger("runfiles").With().Str("root", root).Logger(),
	}, nil
}

// Root returns the absolute output directory
func (c *Creator) Root() string {
	return c.root
}

// Stage returns the stage the run reached. After a failed run it names
// the stage that failed.
func (c *Creator) Stage() Stage {
	return c.stage
}

func (c *Creator) stagedName() string {
	return c.opts.ManifestName + c.opts.StagingSuffix
}

// Run reconciles the output directory with the manifest. The returned
// report describes what was done up to the point of failure, if any.
func (c *Creator) Run(ctx context.Context) (*Report, error) {
	done := logging.LogOperationStart(c.logger, "build runfiles")
	defer done()

	if err := c.run(ctx); err != nil {
		c.logger.Debug().Err(err).Stringer("stage", c.stage).Msg("Run failed")
		var rerr *errors.RunfilesError
		if errors.As(err, &rerr) {
			rerr.WithDetail("stage", c.stage.String())
		}
		return c.report, err
	}
	c.enter(StageDone)
	return c.report, nil
}

func (c *Creator) run(ctx context.Context) error {
	c.enter(StageInit)
	present, err := c.setupRoot()
	if err != nil {
		return err
	}

	c.enter(StageParse)
	model, err := c.parse()
	if err != nil {
		return err
	}
	c.report.Entries = model.Len()

	linker := links.NewLinker(c.fs, c.root, c.opts.WindowsCompatible)

	c.enter(StagePrune)
	if present {
		var trash *Trash
		if c.opts.TrashFallback {
			trash = NewTrash(c.fs, c.opts.TrashDir, c.opts.TrashAttempts)
		}
		reconciler := NewReconciler(c.fs, c.root, model, linker, NewDeleter(c.fs, c.root, trash, c.report), c.report)
		reconciler.DryRun(c.opts.DryRun)
		reconciler.Keep(c.opts.ManifestName, manifest.EmptyFile)
		if rel, ok := c.rootRelative(c.opts.TrashDir); ok {
			reconciler.Keep(rel, manifest.Directory)
		}
		if err := reconciler.Reconcile(ctx); err != nil {
			return err
		}
	}

	c.enter(StageMaterialize)
	if c.opts.DryRun {
		// The staged copy lives in memory only
		model.Delete(c.stagedName())
	}
	materializer := NewMaterializer(c.fs, c.root, model, linker, c.report)
	materializer.DryRun(c.opts.DryRun)
	if err := materializer.Materialize(ctx); err != nil {
		return err
	}

	if c.opts.DryRun {
		return nil
	}

	c.enter(StageCommit)
	committer := NewCommitter(c.fs,
		paths.Join(c.root, c.stagedName()),
		paths.Join(c.root, c.opts.ManifestName))
	if err := committer.Commit(); err != nil {
		return err
	}
	c.report.Committed = true
	return nil
}

func (c *Creator) enter(s Stage) {
	c.stage = s
	c.logger.Debug().Stringer("stage", s).Msg("Entering stage")
}

// setupRoot makes sure the output directory exists and is writable. It
// reports whether the directory is present on disk, which is only false
// for a dry run against a missing directory.
func (c *Creator) setupRoot() (bool, error) {
	info, err := c.fs.Stat(c.root)
	switch {
	case err == nil && !info.IsDir():
		return false, errors.Newf(errors.ErrIO, "'%s' is not a directory", c.root).
			WithDetail("op", "stat").
			WithDetail("path", c.root)
	case err == nil:
		if c.opts.DryRun {
			return true, nil
		}
		changed, err := filesystem.EnsureOwnerRWX(c.fs, c.root)
		if err != nil {
			return true, errors.WrapIO(err, "chmod", c.root)
		}
		if changed {
			c.report.repaired(paths.Root)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		if c.opts.DryRun {
			return false, nil
		}
		if err := c.fs.Mkdir(c.root, dirPerm); err != nil {
			return false, errors.WrapIO(err, "mkdir", c.root)
		}
		c.logger.Info().Msg("Created output directory")
		return true, nil
	default:
		return false, errors.WrapIO(err, "stat", c.root)
	}
}

// parse reads the input manifest into a model while copying it, byte for
// byte, to the staged manifest.
func (c *Creator) parse() (*manifest.Model, error) {
	in, err := c.fs.Open(c.opts.ManifestPath)
	if err != nil {
		return nil, errors.WrapIO(err, "opening for reading", c.opts.ManifestPath)
	}
	defer in.Close()

	stagedPath := paths.Join(c.root, c.stagedName())
	var sink io.WriteCloser
	if c.opts.DryRun {
		sink = nopWriteCloser{&bytes.Buffer{}}
	} else {
		sink, err = c.fs.Create(stagedPath)
		if err != nil {
			return nil, errors.WrapIO(err, "opening for writing", stagedPath)
		}
	}
	staging := bufio.NewWriter(sink)

	model, err := manifest.Parse(in, staging, manifest.ParseOptions{
		AllowRelative: c.opts.AllowRelative,
		UseMetadata:   c.opts.UseMetadata,
	})
	if err != nil {
		_ = sink.Close()
		return nil, err
	}
	if err := staging.Flush(); err != nil {
		_ = sink.Close()
		return nil, errors.WrapIO(err, "writing to", stagedPath)
	}
	if err := sink.Close(); err != nil {
		return nil, errors.WrapIO(err, "closing", stagedPath)
	}

	model.Set(c.stagedName(), manifest.Entry{Kind: manifest.EmptyFile})
	c.logger.Info().Int("entries", model.Len()).Msg("Manifest parsed")
	return model, nil
}

// rootRelative converts an OS path inside the output directory to a
// manifest-relative path.
func (c *Creator) rootRelative(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(c.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !paths.IsNormalized(rel) {
		return "", false
	}
	return rel, true
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
