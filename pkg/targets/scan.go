package targets

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

// Directories the scan never descends into: our own output tree and the
// usual vendored/VCS noise.
var scanSkipDirs = map[string]bool{
	".c2rust":      true,
	"target":       true,
	".git":         true,
	"node_modules": true,
}

// Extensions that disqualify an executable-looking file from being a build
// product: sources, headers, objects, scripts.
var nonBinaryExts = []string{
	".c", ".cpp", ".cc", ".cxx",
	".h", ".hpp", ".hxx",
	".o",
	".sh", ".bash", ".py", ".pl", ".rb", ".lua", ".js", ".ts",
}

// ScanBinaries walks the project tree and returns the project-relative paths
// of every final artifact on disk: lib*.a static libraries, .so shared
// libraries (including numerically versioned .so.1.2 names), and executable
// files that are not #! scripts. Symlinks are skipped entirely. The result
// is sorted and duplicate-free; relative paths rather than basenames keep
// same-named binaries in different directories distinguishable.
func ScanBinaries(projectRoot string) ([]string, error) {
	if projectRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "project root cannot be empty")
	}

	var found []string
	walkErr := filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			if path != projectRoot && scanSkipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// entry vanished mid-walk
			return nil
		}
		if !isBinaryTarget(d.Name(), path, info) {
			return nil
		}
		if rel, ok := paths.RelativeToRoot(path, projectRoot); ok && rel != "" {
			found = append(found, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, errors.ErrFileRead, "cannot scan %s", projectRoot)
	}

	sort.Strings(found)
	return dedupSorted(found), nil
}

// isBinaryTarget decides whether one regular file is a final artifact. The
// name patterns come first since they need no file access; only then does
// the executable check open the file to rule out shebang scripts.
func isBinaryTarget(name, path string, info fs.FileInfo) bool {
	if strings.HasPrefix(name, "lib") && strings.HasSuffix(name, ".a") {
		return true
	}
	if strings.HasSuffix(name, ".so") {
		return true
	}
	if isVersionedSharedLib(name) {
		return true
	}
	for _, ext := range nonBinaryExts {
		if strings.HasSuffix(name, ext) {
			return false
		}
	}
	if info.Mode().Perm()&0111 == 0 {
		return false
	}
	return !isScriptFile(path)
}

// isVersionedSharedLib matches names like libfoo.so.1 and libfoo.so.1.2.3,
// requiring every part after ".so." to be decimal digits; libfoo.so.old is
// somebody's backup, not an artifact.
func isVersionedSharedLib(name string) bool {
	pos := strings.LastIndex(name, ".so.")
	if pos < 0 {
		return false
	}
	rest := name[pos+len(".so."):]
	if rest == "" {
		return false
	}
	for _, part := range strings.Split(rest, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// isScriptFile reports whether the file starts with #!. Files that cannot
// be opened or are shorter than two bytes count as scripts: when in doubt,
// keep it out of the target list.
func isScriptFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return true
	}
	return magic[0] == '#' && magic[1] == '!'
}

func dedupSorted(in []string) []string {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
