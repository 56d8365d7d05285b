package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// PathExists reports whether something exists at path.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CanonicalPath resolves a user-supplied path to an absolute, symlink-free
// form. The path itself may not exist yet (install directories and Wine
// prefixes are usually created by the step that follows), so symlinks are
// resolved against the nearest existing ancestor and the missing tail is
// re-joined untouched.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// Walk up to the nearest existing ancestor, resolve that, and append
	// the non-existing remainder.
	dir, tail := abs, ""
	for {
		parent := filepath.Dir(dir)
		tail = filepath.Join(filepath.Base(dir), tail)
		dir = parent
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(resolved, tail), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if parent == filepath.Dir(parent) {
			// Hit the filesystem root without finding anything real.
			return abs, nil
		}
	}
}
