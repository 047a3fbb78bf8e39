// Package buildenv turns the hook's environment variables into an explicit
// Config value. Everything downstream of this package receives the Config as
// an argument; no pipeline stage reads the environment on its own, which
// keeps the extraction and persistence logic pure and testable.
package buildenv

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/LuuuXXX/c2rust-build/pkg/logging"
	"github.com/LuuuXXX/c2rust-build/pkg/paths"
)

// EnvPrefix namespaces every variable the hook reads or sets.
const EnvPrefix = "C2RUST_"

// Environment variable names, exported so the shim can re-export guards to
// its descendants and so tests can set them by name.
const (
	EnvProjectRoot    = "C2RUST_PROJECT_ROOT"
	EnvFeatureRoot    = "C2RUST_FEATURE_ROOT"
	EnvCompiler       = "C2RUST_COMPILER"
	EnvLinker         = "C2RUST_LINKER"
	EnvSkipPreprocess = "C2RUST_SKIP_PREPROCESS"
	EnvSkipTargets    = "C2RUST_SKIP_TARGETS"
)

// Config carries everything one hook invocation needs to know about its
// environment. Roots are canonical absolute paths or empty when unset,
// missing, or unresolvable; an empty root disables the pipeline stages that
// need it.
type Config struct {
	// ProjectRoot bounds which sources and artifacts belong to the build.
	ProjectRoot string

	// FeatureRoot is where preprocessed sources and the target list land.
	FeatureRoot string

	// Compiler, when set, replaces the built-in compiler name set with
	// exactly this program name. Linker does the same for linkers.
	Compiler string
	Linker   string

	// SkipPreprocess marks this process as a descendant of a hook that
	// already dispatched preprocessing; SkipTargets likewise for target
	// discovery. Both break the hook's own recursion.
	SkipPreprocess bool
	SkipTargets    bool
}

// HasRoots reports whether both roots survived canonicalization. Without
// them the hook observes nothing and only re-executes the real tool.
func (c Config) HasRoots() bool {
	return c.ProjectRoot != "" && c.FeatureRoot != ""
}

// envValues is the koanf unmarshal target. Guards stay strings here: any
// non-empty value arms them, not only values strconv would call true.
type envValues struct {
	ProjectRoot    string `koanf:"project_root"`
	FeatureRoot    string `koanf:"feature_root"`
	Compiler       string `koanf:"compiler"`
	Linker         string `koanf:"linker"`
	SkipPreprocess string `koanf:"skip_preprocess"`
	SkipTargets    string `koanf:"skip_targets"`
}

// Load builds a Config from the process environment. It never fails: a hook
// that cannot configure itself must still hand control to the real tool, so
// problems degrade to empty fields and a debug log line instead of errors.
func Load() Config {
	logger := logging.GetLogger("buildenv")

	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		logger.Debug().Err(err).Msg("cannot read environment")
		return Config{}
	}

	var raw envValues
	if err := k.Unmarshal("", &raw); err != nil {
		logger.Debug().Err(err).Msg("cannot unmarshal environment")
		return Config{}
	}

	cfg := Config{
		Compiler:       raw.Compiler,
		Linker:         raw.Linker,
		SkipPreprocess: raw.SkipPreprocess != "",
		SkipTargets:    raw.SkipTargets != "",
	}
	cfg.ProjectRoot = resolveRoot(logger, EnvProjectRoot, raw.ProjectRoot)
	cfg.FeatureRoot = resolveRoot(logger, EnvFeatureRoot, raw.FeatureRoot)

	return cfg
}

// resolveRoot canonicalizes a root directory from the environment. Unset,
// missing, and unresolvable all collapse to empty: the pipeline treats the
// root as absent rather than aborting the wrapped tool.
func resolveRoot(logger zerolog.Logger, name, value string) string {
	if value == "" {
		return ""
	}
	resolved, err := paths.ResolveDir(value)
	if err != nil {
		logger.Debug().Err(err).Str("var", name).Str("value", value).
			Msg("root did not resolve, treating as unset")
		return ""
	}
	return resolved
}
