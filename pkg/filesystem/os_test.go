package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fsys := NewOS()
	assert.NotNil(t, fsys)

	tmpDir := t.TempDir()

	// Mkdir + CreateExclusive
	dir := filepath.Join(tmpDir, "pkg")
	require.NoError(t, fsys.Mkdir(dir, 0o777))
	empty := filepath.Join(dir, "out")
	require.NoError(t, fsys.CreateExclusive(empty, 0o555))

	info, err := fsys.Lstat(empty)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Zero(t, info.Size())
	assert.Zero(t, info.Mode().Perm()&0o222, "placeholder files are not writable")

	// Exclusive create refuses an existing file
	err = fsys.CreateExclusive(empty, 0o555)
	assert.True(t, errors.Is(err, fs.ErrExist))

	// Symlink + Readlink, dangling allowed
	link := filepath.Join(dir, "link")
	require.NoError(t, fsys.Symlink("/does/not/exist", link))
	target, err := fsys.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist", target)

	// Hard link shares identity
	src := filepath.Join(tmpDir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	hard := filepath.Join(dir, "hard")
	require.NoError(t, fsys.Link(src, hard))
	a, err := fsys.Stat(src)
	require.NoError(t, err)
	b, err := fsys.Stat(hard)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))

	// Create + Open round trip
	w, err := fsys.Create(filepath.Join(tmpDir, "staged"))
	require.NoError(t, err)
	_, err = io.WriteString(w, "a/b \n")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	r, err := fsys.Open(filepath.Join(tmpDir, "staged"))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "a/b \n", string(data))

	// Rename + Remove
	require.NoError(t, fsys.Rename(filepath.Join(tmpDir, "staged"), filepath.Join(tmpDir, "final")))
	require.NoError(t, fsys.Remove(filepath.Join(tmpDir, "final")))
	_, err = fsys.Lstat(filepath.Join(tmpDir, "final"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadDirSeq(t *testing.T) {
	fsys := NewOS()
	dir := t.TempDir()

	// More than one batch
	for i := 0; i < readDirBatch+5; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i%26))+string(rune('a'+i/26)))
		require.NoError(t, os.WriteFile(name, nil, 0o644))
	}

	var names []string
	for entry, err := range fsys.ReadDirSeq(dir) {
		require.NoError(t, err)
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	assert.Len(t, names, readDirBatch+5)
	assert.NotContains(t, names, ".")
	assert.NotContains(t, names, "..")
}

func TestReadDirSeqIsSinglePass(t *testing.T) {
	fsys := NewOS()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), nil, 0o644))

	seq := fsys.ReadDirSeq(dir)
	for range seq {
	}

	var gotErr error
	for _, err := range seq {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, ErrListingConsumed)
}

func TestReadDirSeqMissingDirectory(t *testing.T) {
	fsys := NewOS()

	var gotErr error
	count := 0
	for _, err := range fsys.ReadDirSeq(filepath.Join(t.TempDir(), "missing")) {
		gotErr = err
		count++
	}
	assert.Equal(t, 1, count)
	assert.True(t, os.IsNotExist(gotErr))
}

func TestReadDirSeqAllowsRemovalWhileIterating(t *testing.T) {
	fsys := NewOS()
	dir := t.TempDir()
	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	for entry, err := range fsys.ReadDirSeq(dir) {
		require.NoError(t, err)
		require.NoError(t, fsys.Remove(filepath.Join(dir, entry.Name())))
	}

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestEnsureOwnerRWX(t *testing.T) {
	fsys := NewOS()
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o555))

	needs, err := NeedsOwnerRWX(fsys, dir)
	require.NoError(t, err)
	assert.True(t, needs)

	changed, err := EnsureOwnerRWX(fsys, dir)
	require.NoError(t, err)
	assert.True(t, changed)

	info, err := os.Lstat(dir)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())

	changed, err = EnsureOwnerRWX(fsys, dir)
	require.NoError(t, err)
	assert.False(t, changed, "second call is a no-op")
}
