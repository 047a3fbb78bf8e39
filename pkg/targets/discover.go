package targets

import (
	"path/filepath"
	"strings"

	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

// Intermediate products never count as final artifacts. ".i" is the
// preprocessed-output extension the dispatcher writes.
var intermediateExts = []string{".o", ".i"}

// DiscoverLinker scans a linker (or single-step compile-and-link) argv for
// final artifacts. Two patterns are recorded:
//
//   - any token that resolves, symlinks followed, to a file under
//     projectRoot whose basename is lib*.a — a project-owned static
//     library being linked in;
//   - the -o value (attached or separated), by basename, unless it names an
//     intermediate product. The output does not exist yet at observation
//     time, so this is a pure string check.
//
// Names are returned in first-appearance order without duplicates.
func DiscoverLinker(args []string, workDir, projectRoot string) []string {
	var found []string
	seen := make(map[string]bool)
	record := func(name string) {
		if name == "" || name == "." || seen[name] {
			return
		}
		seen[name] = true
		found = append(found, name)
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "-o" {
			if i+1 < len(args) {
				i++
				recordOutput(record, args[i])
			}
			continue
		}
		if strings.HasPrefix(arg, "-o") && len(arg) > 2 {
			recordOutput(record, strings.TrimPrefix(arg, "-o"))
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if !strings.HasSuffix(arg, ".a") {
			continue
		}
		resolved, err := paths.ResolveFile(workDir, arg)
		if err != nil {
			continue
		}
		base := filepath.Base(resolved)
		if !strings.HasPrefix(base, "lib") || !strings.HasSuffix(base, ".a") {
			continue
		}
		if rel, ok := paths.RelativeToRoot(resolved, projectRoot); ok && rel != "" {
			record(base)
		}
	}
	return found
}

func recordOutput(record func(string), value string) {
	base := filepath.Base(value)
	for _, ext := range intermediateExts {
		if strings.HasSuffix(base, ext) {
			return
		}
	}
	record(base)
}

// archiverLetters are the single-character operations (dmpqrstx) and the
// common modifiers ar accepts in a flag cluster.
const archiverLetters = "dmpqrstxabcfilosuvDLNOPSTUV"

// isArchiverFlagCluster reports whether tok looks like an ar flag cluster
// such as "rcs": no dash, short, every character an archiver letter. This
// is a recognizer for the common spellings, not an ar grammar.
func isArchiverFlagCluster(tok string) bool {
	if tok == "" || len(tok) > 10 {
		return false
	}
	for _, r := range tok {
		if !strings.ContainsRune(archiverLetters, r) {
			return false
		}
	}
	return true
}

// DiscoverArchiver scans an archiver argv for the archive being produced:
// the first token that is neither a -flag nor a flag cluster and whose
// basename is lib*.a. The scan stops at the first match, since ar takes one
// archive operand; member files listed after it never reach the check.
func DiscoverArchiver(args []string) (string, bool) {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if isArchiverFlagCluster(arg) {
			continue
		}
		base := filepath.Base(arg)
		if strings.HasPrefix(base, "lib") && strings.HasSuffix(base, ".a") {
			return base, true
		}
	}
	return "", false
}
