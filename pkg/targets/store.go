package targets

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

// ListFileName is the target list's name under FeatureRoot/c.
const ListFileName = "targets.list"

func listPath(featureRoot string) string {
	return filepath.Join(featureRoot, "c", ListFileName)
}

// openLocked opens the list read-write, creating it if needed, and takes the
// exclusive advisory lock. flock is the sole coordination between the many
// unrelated tool processes of a parallel build; the returned release func
// unlocks and closes.
func openLocked(featureRoot string) (*os.File, func(), error) {
	if err := paths.EnsureDirTree(filepath.Join(featureRoot, "c")); err != nil {
		return nil, nil, err
	}
	path := listPath(featureRoot)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrFileOpen, "cannot open %s", path)
	}

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrapf(err, errors.ErrFileLock, "cannot lock %s", path)
	}

	release := func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		_ = f.Close()
	}
	return f, release, nil
}

// SaveList appends the names missing from FeatureRoot/c/targets.list,
// newline-terminated, under the exclusive lock. Membership is exact line
// equality, so "lib.a" does not hide behind an existing "zlib.a" line. The
// lock spans the whole read-modify-append sequence; without that, two
// processes discovering the same new name could both find it absent and
// double-append. An empty batch is a no-op before any I/O.
func SaveList(names []string, featureRoot string) error {
	if len(names) == 0 {
		return nil
	}

	f, release, err := openLocked(featureRoot)
	if err != nil {
		return err
	}
	defer release()

	content, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", f.Name())
	}

	existing := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			existing[line] = true
		}
	}

	var batch strings.Builder
	if len(content) > 0 && content[len(content)-1] != '\n' {
		// an outside writer left the file unterminated
		batch.WriteByte('\n')
	}
	appended := false
	for _, name := range names {
		if name == "" || existing[name] {
			continue
		}
		existing[name] = true
		batch.WriteString(name)
		batch.WriteByte('\n')
		appended = true
	}
	if !appended {
		return nil
	}

	// the descriptor sits at EOF after ReadAll, so Write appends
	if _, err := f.WriteString(batch.String()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot append to %s", f.Name())
	}
	return nil
}

// ReadList returns the recorded target names: trimmed lines, blanks and
// #-comments skipped, duplicates dropped keeping first appearance. Both a
// missing file and a file with no usable lines are ErrNotFound, so callers
// picking a target can treat them alike.
func ReadList(featureRoot string) ([]string, error) {
	path := listPath(featureRoot)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no target list at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
	}

	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}

	if len(names) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no targets recorded in %s", path)
	}
	return names, nil
}

// RewriteList replaces the list with the authoritative project scan, under
// the same lock the appenders take. Heuristic entries that no longer exist
// on disk disappear here; an empty scan leaves an empty file rather than a
// missing one.
func RewriteList(projectRoot, featureRoot string) error {
	binaries, err := ScanBinaries(projectRoot)
	if err != nil {
		return err
	}

	f, release, err := openLocked(featureRoot)
	if err != nil {
		return err
	}
	defer release()

	if err := f.Truncate(0); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot truncate %s", f.Name())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot rewind %s", f.Name())
	}
	if len(binaries) == 0 {
		return nil
	}
	if _, err := f.WriteString(strings.Join(binaries, "\n") + "\n"); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", f.Name())
	}
	return nil
}
