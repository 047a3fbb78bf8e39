// Package hook runs the observation pipeline for one wrapped tool process:
// classify the tool, extract what its argv says about the project,
// preprocess in-project sources, record the compilation, and persist
// discovered build targets. Whatever happens in here, the wrapped tool's
// own behavior is untouched.
package hook

import (
	"github.com/rs/zerolog"

	"github.com/LuuuXXX/c2rust-build/pkg/buildenv"
	"github.com/LuuuXXX/c2rust-build/pkg/ccargs"
	"github.com/LuuuXXX/c2rust-build/pkg/compiledb"
	"github.com/LuuuXXX/c2rust-build/pkg/logging"
	"github.com/LuuuXXX/c2rust-build/pkg/preproc"
	"github.com/LuuuXXX/c2rust-build/pkg/targets"
	"github.com/LuuuXXX/c2rust-build/pkg/toolrole"
)

// Invocation is one observed tool process: the short name it was launched
// under, its arguments, and the directory it runs in.
type Invocation struct {
	Prog string
	Args []string
	Dir  string
}

// Result reports what the observation pass did. The shim arms the guards its
// descendants inherit from it: a dispatched preprocessing pass arms the
// preprocess guard, saved targets arm the target guard.
type Result struct {
	Role                toolrole.Role
	Preprocessed        []string
	SavedTargets        []string
	PreprocessAttempted bool
}

// Run executes the pipeline for inv, best effort. Both roots must be
// configured or nothing happens; beyond that every sub-step failure is
// logged and swallowed, because breaking the build it observes is the one
// thing the hook must never do.
func Run(cfg buildenv.Config, inv Invocation) Result {
	var res Result
	if !cfg.HasRoots() {
		return res
	}

	res.Role = toolrole.Classify(inv.Prog, cfg.Compiler, cfg.Linker)
	if res.Role == toolrole.None {
		return res
	}

	logger := logging.GetLogger("hook")
	logger.Debug().
		Str("prog", inv.Prog).
		Str("role", res.Role.String()).
		Str("dir", inv.Dir).
		Msg("observing invocation")

	switch res.Role {
	case toolrole.Compiler:
		observeCompiler(cfg, inv, logger, &res)
	case toolrole.Linker:
		if !cfg.SkipTargets {
			res.SavedTargets = persistTargets(cfg, logger,
				targets.DiscoverLinker(inv.Args, inv.Dir, cfg.ProjectRoot))
		}
	case toolrole.Archiver:
		if !cfg.SkipTargets {
			if name, ok := targets.DiscoverArchiver(inv.Args); ok {
				res.SavedTargets = persistTargets(cfg, logger, []string{name})
			}
		}
	}
	return res
}

// observeCompiler handles the richest role. Recording and preprocessing run
// only when the invocation names in-project sources and the preprocess guard
// is off; target discovery runs regardless of sources, since compile-and-link
// lines like `gcc main.o -o app` carry targets but no sources.
func observeCompiler(cfg buildenv.Config, inv Invocation, logger zerolog.Logger, res *Result) {
	ex := ccargs.Extract(inv.Args, inv.Dir, cfg.ProjectRoot)

	if len(ex.Sources) > 0 && !cfg.SkipPreprocess {
		recordCompilation(cfg, inv, logger)

		if d, err := preproc.New(cfg, inv.Dir); err != nil {
			logger.Warn().Err(err).Msg("preprocessor unavailable")
		} else {
			res.Preprocessed = d.Run(ex)
			res.PreprocessAttempted = true
		}
	}

	if !cfg.SkipTargets {
		res.SavedTargets = persistTargets(cfg, logger,
			targets.DiscoverLinker(inv.Args, inv.Dir, cfg.ProjectRoot))
	}
}

// recordCompilation appends the invocation to the compile-commands log. The
// synthetic preprocessor child never reaches here: its guard is armed, so
// the sources-and-guard check above already filtered it out.
func recordCompilation(cfg buildenv.Config, inv Invocation, logger zerolog.Logger) {
	entry := compiledb.NewEntry(inv.Dir, append([]string{inv.Prog}, inv.Args...))
	if err := compiledb.Record(entry, cfg.FeatureRoot); err != nil {
		logger.Warn().Err(err).Msg("cannot record compile command")
	}
}

// persistTargets saves the discovered names to the target list. On failure
// nothing counts as saved, so the target guard stays unarmed and a later
// invocation gets to retry.
func persistTargets(cfg buildenv.Config, logger zerolog.Logger, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	if err := targets.SaveList(names, cfg.FeatureRoot); err != nil {
		logger.Warn().Err(err).Strs("targets", names).Msg("cannot save targets")
		return nil
	}
	logger.Debug().Strs("targets", names).Msg("targets saved")
	return names
}
