package runfiles

import (
	"os"
	"path/filepath"
	"regexp"
	"syscall"
	"testing"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/filesystem"
	"github.com/arthur-debert/build-runfiles/pkg/manifest"
	"github.com/arthur-debert/build-runfiles/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUniqueTrashName(t *testing.T) {
	name := uniqueTrashName()
	assert.Regexp(t, regexp.MustCompile(`^[0-9]+$`), name)
	assert.NotEqual(t, name, uniqueTrashName(), "names carry a random suffix")
}

func TestTrashMove(t *testing.T) {
	dir := t.TempDir()
	victim := testutil.CreateFile(t, dir, "victim", "payload")
	trash := NewTrash(filesystem.NewOS(), filepath.Join(dir, "trash"), 0)

	dest, err := trash.Move(victim)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trash"), trash.Dir())

	assert.Equal(t, filepath.Join(dir, "trash"), filepath.Dir(dest))
	testutil.AssertNoFile(t, victim)
	testutil.AssertFileContent(t, dest, "payload")
}

func TestTrashRetriesCollisions(t *testing.T) {
	dir := t.TempDir()
	victim := testutil.CreateFile(t, dir, "victim", "")

	fsys := testutil.NewFaultFS(filesystem.NewOS())
	fsys.On("Rename", victim, mock.Anything).Return(syscall.EEXIST).Twice()
	fsys.PassThrough()

	trash := NewTrash(fsys, filepath.Join(dir, "trash"), 3)
	_, err := trash.Move(victim)
	require.NoError(t, err)
	fsys.AssertNumberOfCalls(t, "Rename", 3)
	testutil.AssertNoFile(t, victim)
}

func TestTrashExhaustsAttempts(t *testing.T) {
	dir := t.TempDir()
	victim := testutil.CreateFile(t, dir, "victim", "")

	fsys := testutil.NewFaultFS(filesystem.NewOS())
	fsys.On("Rename", victim, mock.Anything).Return(syscall.EACCES)

	trash := NewTrash(fsys, filepath.Join(dir, "trash"), DefaultTrashAttempts)
	_, err := trash.Move(victim)
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrPlatformLink))
	assert.Equal(t, DefaultTrashAttempts, errors.GetErrorDetails(err)["attempts"])
	fsys.AssertNumberOfCalls(t, "Rename", DefaultTrashAttempts)
	assert.FileExists(t, victim)
}

func TestTrashDoesNotRetryOtherErrors(t *testing.T) {
	dir := t.TempDir()
	victim := testutil.CreateFile(t, dir, "victim", "")

	fsys := testutil.NewFaultFS(filesystem.NewOS())
	fsys.On("Rename", victim, mock.Anything).Return(syscall.EXDEV)

	trash := NewTrash(fsys, filepath.Join(dir, "trash"), 5)
	_, err := trash.Move(victim)

	assert.True(t, errors.IsErrorCode(err, errors.ErrPlatformLink))
	assert.ErrorIs(t, err, syscall.EXDEV)
	fsys.AssertNumberOfCalls(t, "Rename", 1)
}

func TestDelTreeRepairsPermissions(t *testing.T) {
	testutil.SkipOnWindows(t)
	root := t.TempDir()
	testutil.CreateFile(t, root, "top/a/b/file", "")
	testutil.CreateSymlink(t, "/nowhere", filepath.Join(root, "top/a/link"))
	testutil.Chmod(t, filepath.Join(root, "top/a/b"), 0o000)
	testutil.Chmod(t, filepath.Join(root, "top/a"), 0o500)

	report := &Report{}
	d := NewDeleter(filesystem.NewOS(), root, nil, report)
	require.NoError(t, d.DelTree("top", manifest.Directory))

	testutil.AssertNoFile(t, filepath.Join(root, "top"))
	assert.ElementsMatch(t, []string{"top/a", "top/a/b"}, report.Repaired)
}

func TestDelTreeUnblocksReadOnlyDirectories(t *testing.T) {
	testutil.SkipOnWindows(t)
	testutil.SkipIfRoot(t)
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "ro/file", "")
	testutil.Chmod(t, filepath.Join(root, "ro"), 0o500)

	// Without the repair the kernel refuses the unlink
	err := os.Remove(file)
	require.ErrorIs(t, err, os.ErrPermission)

	report := &Report{}
	d := NewDeleter(filesystem.NewOS(), root, nil, report)
	require.NoError(t, d.DelTree("ro", manifest.Directory))

	testutil.AssertNoFile(t, filepath.Join(root, "ro"))
	assert.Equal(t, []string{"ro"}, report.Repaired)
}

func TestDelTreeSingleEntries(t *testing.T) {
	root := t.TempDir()
	file := testutil.CreateFile(t, root, "f", "")

	d := NewDeleter(filesystem.NewOS(), root, nil, &Report{})
	require.NoError(t, d.DelTree("f", manifest.EmptyFile))
	testutil.AssertNoFile(t, file)

	err := d.DelTree("missing", manifest.EmptyFile)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
