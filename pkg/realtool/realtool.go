// Package realtool resolves the genuine build tool hiding behind the shim's
// own name. The orchestrator puts a directory of symlinks named gcc, cc, ld,
// ar and so on at the front of PATH, all pointing at the hook binary, so a
// plain exec.LookPath from inside the hook would find the hook again and
// exec itself forever. Look walks PATH the same way but skips every
// candidate that resolves to the current executable.
package realtool

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
)

// Look returns the path of the first executable called name on PATH that is
// not the hook binary itself. A name containing a path separator skips the
// PATH walk and is checked directly, mirroring exec.LookPath.
func Look(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "tool name cannot be empty")
	}

	self := selfPath()

	if strings.ContainsRune(name, os.PathSeparator) {
		if !isExecutableFile(name) {
			return "", errors.Newf(errors.ErrToolNotFound, "%s is not an executable", name)
		}
		if isSelf(name, self) {
			return "", errors.Newf(errors.ErrToolNotFound,
				"%s is the hook itself, refusing to exec in a loop", name)
		}
		return name, nil
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			// empty PATH entry means the current directory, as in execvp
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if !isExecutableFile(candidate) {
			continue
		}
		if isSelf(candidate, self) {
			continue
		}
		return candidate, nil
	}

	return "", errors.Newf(errors.ErrToolNotFound, "no real %s found on PATH", name)
}

// selfPath is the canonical path of the running binary, or empty when it
// cannot be determined; an empty self disables the exclusion rather than
// failing the lookup.
func selfPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return exe
	}
	return resolved
}

func isSelf(candidate, self string) bool {
	if self == "" {
		return false
	}
	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return false
	}
	return resolved == self
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
