// Package ccargs extracts the preprocessing-relevant pieces of a compiler
// command line: the include/define/undef/std flags, the in-project C sources,
// and the -o output path. Everything else in argv belongs to the wrapped
// compiler and is ignored.
package ccargs

import (
	"strings"

	"golang.org/x/sys/unix"

	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

// Extraction is what one compiler argv yields.
type Extraction struct {
	// Flags holds the preprocessing flags in their original order,
	// separated forms kept as two consecutive tokens. Passing these to a
	// preprocessor reproduces the include and macro environment the
	// compiler saw.
	Flags []string

	// Sources are the C files the command compiles, as canonical absolute
	// paths. Only files that exist, are readable, and live inside the
	// project root are collected.
	Sources []string

	// Output is the -o value exactly as written, or empty. It never
	// appears in Flags.
	Output string
}

// Extract scans a compiler argv (without argument 0) left to right.
// Relative source paths resolve against workDir, the working directory of
// the observed invocation. A non-empty projectRoot restricts Sources to
// files strictly inside it; projectRoot must already be canonical.
//
// Flag forms follow the compiler's own grammar: -I/-D/-U take an attached
// ("-Iinclude") or separated ("-I", "include") value, -include takes a
// separated one, -std is only meaningful with an attached "=". A separated
// flag dangling at the end of argv is recorded alone.
func Extract(args []string, workDir, projectRoot string) Extraction {
	var ex Extraction
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-I", "-D", "-U", "-include":
			ex.Flags = append(ex.Flags, arg)
			if i+1 < len(args) {
				i++
				ex.Flags = append(ex.Flags, args[i])
			}
			continue
		case "-o":
			if i+1 < len(args) {
				i++
				ex.Output = args[i]
			}
			continue
		}
		switch {
		case strings.HasPrefix(arg, "-I"),
			strings.HasPrefix(arg, "-D"),
			strings.HasPrefix(arg, "-U"),
			strings.HasPrefix(arg, "-std="),
			strings.HasPrefix(arg, "-include"):
			ex.Flags = append(ex.Flags, arg)
		case strings.HasPrefix(arg, "-o"):
			ex.Output = strings.TrimPrefix(arg, "-o")
		case strings.HasPrefix(arg, "-"):
			// some other compiler flag
		case strings.HasSuffix(arg, ".c"):
			if src, ok := resolveSource(arg, workDir, projectRoot); ok {
				ex.Sources = append(ex.Sources, src)
			}
		}
	}
	return ex
}

// resolveSource turns an argv token into a canonical source path, applying
// the three admission checks: the file exists (symlinks resolved), is
// readable, and sits strictly inside the project root.
func resolveSource(arg, workDir, projectRoot string) (string, bool) {
	resolved, err := paths.ResolveFile(workDir, arg)
	if err != nil {
		return "", false
	}
	if unix.Access(resolved, unix.R_OK) != nil {
		return "", false
	}
	if projectRoot != "" {
		rel, ok := paths.RelativeToRoot(resolved, projectRoot)
		if !ok || rel == "" {
			return "", false
		}
	}
	return resolved, true
}
