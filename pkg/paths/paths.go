package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
)

// ResolveDir canonicalizes a directory path: it makes the path absolute,
// resolves all symlinks, and verifies the result is an existing directory.
// The project root and feature root both go through this before any
// containment check, so later prefix comparisons see one spelling per
// directory.
func ResolveDir(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "directory path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBadRoot,
			"cannot make %s absolute", path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBadRoot,
			"cannot resolve %s", path)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBadRoot,
			"cannot stat %s", resolved)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrBadRoot, "%s is not a directory", resolved)
	}

	return resolved, nil
}

// RelativeToRoot returns the remainder of path after root, and whether path
// lies inside root at all. The boundary is component-aware: the character
// after the root prefix must be a separator (or the end of the path), so
// /rootother/a.c is not under /root. When path equals root the remainder is
// empty and ok is true.
//
// Both arguments are expected to be canonical absolute paths; the function
// does pure string work and never touches the filesystem.
func RelativeToRoot(path, root string) (rel string, ok bool) {
	if path == "" || root == "" {
		return "", false
	}

	path = filepath.Clean(path)
	root = filepath.Clean(root)

	if path == root {
		return "", true
	}

	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}

	return path[len(prefix):], true
}

// EnsureDirTree creates the directory and any missing parents. An already
// existing directory is success.
func EnsureDirTree(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create directory tree %s", path)
	}
	return nil
}

// ChangeExt swaps the final extension of path for newExt, which must include
// its leading dot. A path without an extension gets newExt appended.
//
//	ChangeExt("src/util.c", ".i") == "src/util.i"
func ChangeExt(path, newExt string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + newExt
}

// AbsFrom makes path absolute. A relative path is resolved against dir,
// which is the working directory of the tool invocation being observed;
// an already absolute path is only cleaned.
func AbsFrom(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// ResolveFile makes path absolute relative to dir and resolves symlinks.
// It fails when the file does not exist, which makes it double as the
// existence check for argv tokens that look like files.
func ResolveFile(dir, path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(AbsFrom(dir, path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound,
			"cannot resolve %s", path)
	}
	return resolved, nil
}
