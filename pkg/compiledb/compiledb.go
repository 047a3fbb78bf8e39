// Package compiledb records compiler invocations during a build and turns
// the record into a compile_commands.json-shaped database afterwards.
//
// During the build each compiler-role process appends a small DIR/CMD block
// to FeatureRoot/c/compile_commands.log under the same exclusive lock the
// target store uses, so parallel compilers never interleave blocks. After
// the build, Convert distills the log into JSON, keeping only commands that
// actually name a .c source.
package compiledb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/sys/unix"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

const (
	// LogFileName is the raw invocation log under FeatureRoot/c.
	LogFileName = "compile_commands.log"
	// JSONFileName is the converted database under FeatureRoot/c.
	JSONFileName = "compile_commands.json"
)

// Entry is one compilation-database record. File stays empty in the raw log
// and is derived from the command during Convert.
type Entry struct {
	Directory string `json:"directory"`
	File      string `json:"file"`
	Command   string `json:"command"`
}

// NewEntry captures one compiler invocation: the directory it ran in and its
// full argv, quoted so Convert can split it back even when arguments carry
// spaces.
func NewEntry(dir string, argv []string) Entry {
	return Entry{Directory: dir, Command: shellquote.Join(argv...)}
}

// Arguments splits the recorded command back into argv form. A command that
// no longer splits cleanly yields nothing rather than a half-parsed argv.
func (e Entry) Arguments() []string {
	words, err := shellquote.Split(e.Command)
	if err != nil {
		return nil
	}
	return words
}

// LogPath returns the invocation log's location under the feature tree.
func LogPath(featureRoot string) string {
	return filepath.Join(featureRoot, "c", LogFileName)
}

// JSONPath returns the converted database's location under the feature tree.
func JSONPath(featureRoot string) string {
	return filepath.Join(featureRoot, "c", JSONFileName)
}

// Record appends one DIR/CMD/--- block to FeatureRoot/c's invocation log.
// The exclusive lock spans the single append so blocks from concurrent
// compilers land whole.
func Record(entry Entry, featureRoot string) error {
	if err := paths.EnsureDirTree(filepath.Join(featureRoot, "c")); err != nil {
		return err
	}
	path := LogPath(featureRoot)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileOpen, "cannot open %s", path)
	}

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrFileLock, "cannot lock %s", path)
	}
	defer func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
		_ = f.Close()
	}()

	block := "DIR:" + entry.Directory + "\nCMD:" + entry.Command + "\n---\n"
	if _, err := f.WriteString(block); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot append to %s", path)
	}
	return nil
}

// Convert distills the invocation log at logPath into a compilation database
// at jsonPath. Only blocks whose command names a .c source survive; linker
// lines and other noise drop out here. A missing log still converts, to an
// empty database: nothing was compiled.
func Convert(logPath, jsonPath string) error {
	content, err := os.ReadFile(logPath)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", logPath)
	}

	entries := parseLog(string(content))

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot encode compilation database")
	}
	data = append(data, '\n')

	if err := paths.EnsureDirTree(filepath.Dir(jsonPath)); err != nil {
		return err
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", jsonPath)
	}
	return nil
}

// parseLog walks the DIR/CMD/--- blocks. A terminator only closes a block
// when both halves were seen, so torn or truncated blocks are dropped rather
// than misattributed.
func parseLog(content string) []Entry {
	entries := []Entry{}
	var dir, cmd string
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "DIR:"):
			dir = strings.TrimPrefix(line, "DIR:")
		case strings.HasPrefix(line, "CMD:"):
			cmd = strings.TrimPrefix(line, "CMD:")
		case line == "---" && dir != "" && cmd != "":
			if file, ok := sourceFromCommand(cmd); ok {
				entries = append(entries, Entry{Directory: dir, File: file, Command: cmd})
			}
			dir, cmd = "", ""
		}
	}
	return entries
}

// sourceFromCommand picks the first .c operand out of a recorded command.
func sourceFromCommand(cmd string) (string, bool) {
	words, err := shellquote.Split(cmd)
	if err != nil {
		return "", false
	}
	for _, w := range words {
		if strings.HasPrefix(w, "-") {
			continue
		}
		if strings.HasSuffix(w, ".c") {
			return w, true
		}
	}
	return "", false
}

// Load reads a converted database back, keeping only .c entries. A missing
// database loads as empty.
func Load(jsonPath string) ([]Entry, error) {
	content, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", jsonPath)
	}

	var all []Entry
	if err := json.Unmarshal(content, &all); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "malformed compilation database %s", jsonPath)
	}

	var entries []Entry
	for _, e := range all {
		if strings.HasSuffix(e.File, ".c") {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
