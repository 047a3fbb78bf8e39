// Package preproc materializes macro-expanded copies of in-project C sources
// under the feature tree, by running a real preprocessor subprocess per file.
package preproc

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/LuuuXXX/c2rust-build/pkg/buildenv"
	"github.com/LuuuXXX/c2rust-build/pkg/ccargs"
	"github.com/LuuuXXX/c2rust-build/pkg/errors"
	"github.com/LuuuXXX/c2rust-build/pkg/logging"
	"github.com/LuuuXXX/c2rust-build/pkg/paths"
	"github.com/LuuuXXX/c2rust-build/pkg/realtool"
)

// PreprocessorName is the one toolchain binary used for every expansion.
// The build may be driven by any compiler, but the downstream translator
// needs preprocessor output with a single, known dialect, so the dispatcher
// always reaches for clang rather than the tool it woke up inside.
const PreprocessorName = "clang"

// OutExt replaces the .c extension on preprocessed output.
const OutExt = ".i"

// Dispatcher runs the per-file preprocessing for one observed compiler
// invocation. It holds everything as explicit state; in particular the skip
// guard is the caller's business, the dispatcher itself never consults the
// environment.
type Dispatcher struct {
	cfg     buildenv.Config
	command string
	workDir string
	logger  zerolog.Logger
}

// New resolves the preprocessor and returns a ready Dispatcher. Resolution
// goes through realtool so the shim's own clang symlink is skipped; without
// a real clang there is nothing to dispatch and New fails.
func New(cfg buildenv.Config, workDir string) (*Dispatcher, error) {
	command, err := realtool.Look(PreprocessorName)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		cfg:     cfg,
		command: command,
		workDir: workDir,
		logger:  logging.GetLogger("preproc"),
	}, nil
}

// Run preprocesses every source of the extraction and returns the
// destination paths actually written. Failures are per-file: a source whose
// expansion cannot be produced is logged and skipped, the rest proceed.
// Repeat runs overwrite their destinations.
func (d *Dispatcher) Run(ex ccargs.Extraction) []string {
	var written []string
	for _, src := range ex.Sources {
		dest, err := d.destFor(src)
		if err != nil {
			d.logger.Warn().Err(err).Str("source", src).Msg("skipping source")
			continue
		}
		if err := d.preprocessOne(ex.Flags, src, dest); err != nil {
			d.logger.Warn().Err(err).Str("source", src).Msg("preprocessing failed")
			continue
		}
		d.logger.Debug().Str("source", src).Str("dest", dest).Msg("preprocessed")
		written = append(written, dest)
	}
	return written
}

// destFor mirrors the source's project-relative path under FeatureRoot/c
// with the preprocessed extension, creating parent directories on demand.
// The containment check repeats here even though the extractor already
// guarantees it; a source sneaking past would otherwise write outside the
// feature tree.
func (d *Dispatcher) destFor(src string) (string, error) {
	rel, ok := paths.RelativeToRoot(src, d.cfg.ProjectRoot)
	if !ok || rel == "" {
		return "", errors.Newf(errors.ErrNotInRoot, "%s is outside the project root", src)
	}
	dest := filepath.Join(d.cfg.FeatureRoot, "c", paths.ChangeExt(rel, OutExt))
	if err := paths.EnsureDirTree(filepath.Dir(dest)); err != nil {
		return "", err
	}
	return dest, nil
}

// preprocessOne spawns the preprocessor for a single file with an explicit
// argument vector: the extracted flags, expand-only mode without line
// markers, the source, and the destination. The child environment carries
// the skip guard, because the child is itself a compiler-role process under
// the hook and must not recurse into its own dispatch.
func (d *Dispatcher) preprocessOne(flags []string, src, dest string) error {
	defer logging.LogDuration(d.logger, time.Now(), "preprocess")

	args := make([]string, 0, len(flags)+5)
	args = append(args, flags...)
	args = append(args, "-E", "-P", src, "-o", dest)

	cmd := exec.Command(d.command, args...)
	cmd.Dir = d.workDir
	cmd.Env = append(
		envWithout(os.Environ(), buildenv.EnvSkipPreprocess),
		buildenv.EnvSkipPreprocess+"=1",
	)

	// stdout stays detached: the hook must never leak into the observed
	// tool's streams. stderr is kept for the log.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrPreprocess,
			"%s failed for %s: %s", PreprocessorName, src, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// envWithout copies env dropping every entry for key, so the appended
// replacement is the only occurrence the child sees.
func envWithout(env []string, key string) []string {
	out := make([]string, 0, len(env))
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		out = append(out, kv)
	}
	return out
}
