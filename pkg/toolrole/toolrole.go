// Package toolrole decides what kind of build tool the hook woke up inside,
// going only by the short program name it was invoked as.
package toolrole

// Role is the classification of an observed tool process.
type Role int

const (
	None Role = iota
	Compiler
	Linker
	Archiver
)

func (r Role) String() string {
	switch r {
	case Compiler:
		return "compiler"
	case Linker:
		return "linker"
	case Archiver:
		return "archiver"
	default:
		return "none"
	}
}

// Built-in program name sets. These are deliberately narrow: a name like
// "gcc-12" or "arm-none-eabi-gcc" is not claimed, because misclassifying a
// random tool as a compiler would spawn pointless preprocessor children
// inside someone's build. Overrides exist for builds that need other names.
var (
	compilerNames = []string{"gcc", "clang", "cc"}
	linkerNames   = []string{"ld", "ld.gold", "ld.bfd"}
	archiverNames = []string{"ar"}
)

// Classify maps a short program name (the basename of argv[0]) to its Role.
// A non-empty override replaces the corresponding built-in set entirely and
// must match exactly. The checks run compiler first, then linker, then
// archiver, so a name configured into two sets gets the earlier role.
func Classify(prog, compilerOverride, linkerOverride string) Role {
	switch {
	case matches(prog, compilerOverride, compilerNames):
		return Compiler
	case matches(prog, linkerOverride, linkerNames):
		return Linker
	case matches(prog, "", archiverNames):
		return Archiver
	default:
		return None
	}
}

func matches(prog, override string, builtin []string) bool {
	if prog == "" {
		return false
	}
	if override != "" {
		return prog == override
	}
	for _, name := range builtin {
		if prog == name {
			return true
		}
	}
	return false
}
