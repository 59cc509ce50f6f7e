package filesystem

import "io/fs"

// OwnerRWX is the minimum permission a directory needs before its
// children can be listed, created or removed.
const OwnerRWX fs.FileMode = 0o700

const permBits = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky

// EnsureOwnerRWX adds owner read, write and execute permission to name
// when any of them is missing, keeping every other permission bit. It
// reports whether a change was made.
func EnsureOwnerRWX(fsys FS, name string) (bool, error) {
	info, err := fsys.Lstat(name)
	if err != nil {
		return false, err
	}
	if info.Mode()&OwnerRWX == OwnerRWX {
		return false, nil
	}
	if err := fsys.Chmod(name, (info.Mode()&permBits)|OwnerRWX); err != nil {
		return false, err
	}
	return true, nil
}

// NeedsOwnerRWX reports whether EnsureOwnerRWX would change name.
func NeedsOwnerRWX(fsys FS, name string) (bool, error) {
	info, err := fsys.Lstat(name)
	if err != nil {
		return false, err
	}
	return info.Mode()&OwnerRWX != OwnerRWX, nil
}
