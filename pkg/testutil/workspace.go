package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Workspace is an isolated temp directory laid out for a runfiles run:
// real link targets under Src, the manifest file, and the output
// directory Out (not created until a test or a run does so).
type Workspace struct {
	Dir      string
	Src      string
	Out      string
	Manifest string

	t *testing.T
}

// NewWorkspace creates a workspace under t.TempDir()
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	dir := t.TempDir()
	w := &Workspace{
		Dir:      dir,
		Src:      filepath.Join(dir, "src"),
		Out:      filepath.Join(dir, "out.runfiles"),
		Manifest: filepath.Join(dir, "MANIFEST.in"),
		t:        t,
	}
	if err := os.Mkdir(w.Src, 0o755); err != nil {
		t.Fatalf("Failed to create source directory: %v", err)
	}
	return w
}

// Target creates a real file under Src and returns its absolute path
func (w *Workspace) Target(name, content string) string {
	w.t.Helper()
	return CreateFile(w.t, w.Src, name, content)
}

// TargetDir creates a real directory under Src and returns its absolute
// path
func (w *Workspace) TargetDir(name string) string {
	w.t.Helper()
	return CreateDir(w.t, w.Src, name)
}

// WriteManifest writes the given lines, each terminated by a newline, to
// the manifest file and returns the exact bytes written.
func (w *Workspace) WriteManifest(lines ...string) string {
	w.t.Helper()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	content := b.String()
	if err := os.WriteFile(w.Manifest, []byte(content), 0o644); err != nil {
		w.t.Fatalf("Failed to write manifest: %v", err)
	}
	return content
}

// OutPath returns the OS path of a manifest-relative path in the output
// directory
func (w *Workspace) OutPath(rel string) string {
	return filepath.Join(w.Out, filepath.FromSlash(rel))
}
