package paths

import (
	"path/filepath"
	"strings"
)

// Root is the manifest-relative name of the output root itself
const Root = "."

// Join converts a manifest-relative path into an OS path under root.
func Join(root, rel string) string {
	if rel == Root || rel == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// Child returns the manifest-relative path of name inside dir.
func Child(dir, name string) string {
	if dir == Root || dir == "" {
		return name
	}
	return dir + "/" + name
}

// Parent strips the final slash-separated segment of p. It reports
// false when p has no parent inside the tree.
func Parent(p string) (string, bool) {
	k := strings.LastIndexByte(p, '/')
	if k < 0 {
		return "", false
	}
	return p[:k], true
}

// Ancestors returns the proper ancestors of p, nearest first.
func Ancestors(p string) []string {
	var out []string
	for {
		parent, ok := Parent(p)
		if !ok {
			return out
		}
		out = append(out, parent)
		p = parent
	}
}

// IsAbsManifestPath reports whether a manifest link path is absolute.
func IsAbsManifestPath(p string) bool {
	return strings.HasPrefix(p, "/") || filepath.IsAbs(p)
}

// IsAbsTarget reports whether a link target counts as absolute: a leading
// slash, or a drive-letter form such as C:\foo or C:/foo.
func IsAbsTarget(target string) bool {
	if target == "" {
		return false
	}
	if target[0] == '/' {
		return true
	}
	return len(target) > 1 && target[1] == ':'
}

// IsNormalized reports whether p is a non-empty relative path with no
// empty, "." or ".." segments.
func IsNormalized(p string) bool {
	if p == "" {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".", "..":
			return false
		}
	}
	return true
}
