// pkg/buildenv/buildenv_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test environment-to-Config loading, root canonicalization, guards

package buildenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuuuXXX/c2rust-build/pkg/buildenv"
)

// clearHookEnv blanks every hook variable so ambient environment cannot
// leak into a test.
func clearHookEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		buildenv.EnvProjectRoot,
		buildenv.EnvFeatureRoot,
		buildenv.EnvCompiler,
		buildenv.EnvLinker,
		buildenv.EnvSkipPreprocess,
		buildenv.EnvSkipTargets,
	} {
		t.Setenv(v, "")
	}
}

func TestLoadFullEnvironment(t *testing.T) {
	clearHookEnv(t)

	project := t.TempDir()
	feature := t.TempDir()
	t.Setenv(buildenv.EnvProjectRoot, project)
	t.Setenv(buildenv.EnvFeatureRoot, feature)
	t.Setenv(buildenv.EnvCompiler, "gcc-12")
	t.Setenv(buildenv.EnvLinker, "ld.custom")
	t.Setenv(buildenv.EnvSkipPreprocess, "1")
	t.Setenv(buildenv.EnvSkipTargets, "1")

	cfg := buildenv.Load()

	wantProject, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	wantFeature, err := filepath.EvalSymlinks(feature)
	require.NoError(t, err)

	assert.Equal(t, wantProject, cfg.ProjectRoot)
	assert.Equal(t, wantFeature, cfg.FeatureRoot)
	assert.Equal(t, "gcc-12", cfg.Compiler)
	assert.Equal(t, "ld.custom", cfg.Linker)
	assert.True(t, cfg.SkipPreprocess)
	assert.True(t, cfg.SkipTargets)
	assert.True(t, cfg.HasRoots())
}

func TestLoadEmptyEnvironment(t *testing.T) {
	clearHookEnv(t)

	cfg := buildenv.Load()

	assert.Empty(t, cfg.ProjectRoot)
	assert.Empty(t, cfg.FeatureRoot)
	assert.Empty(t, cfg.Compiler)
	assert.Empty(t, cfg.Linker)
	assert.False(t, cfg.SkipPreprocess)
	assert.False(t, cfg.SkipTargets)
	assert.False(t, cfg.HasRoots())
}

func TestLoadMissingRootTreatedAsUnset(t *testing.T) {
	clearHookEnv(t)

	feature := t.TempDir()
	t.Setenv(buildenv.EnvProjectRoot, filepath.Join(t.TempDir(), "does-not-exist"))
	t.Setenv(buildenv.EnvFeatureRoot, feature)

	cfg := buildenv.Load()

	assert.Empty(t, cfg.ProjectRoot)
	assert.NotEmpty(t, cfg.FeatureRoot)
	assert.False(t, cfg.HasRoots(), "one missing root must disable the pipeline")
}

func TestLoadRootThroughSymlink(t *testing.T) {
	clearHookEnv(t)

	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0755))
	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(real, link))

	t.Setenv(buildenv.EnvProjectRoot, link)
	t.Setenv(buildenv.EnvFeatureRoot, real)

	cfg := buildenv.Load()

	want, err := filepath.EvalSymlinks(real)
	require.NoError(t, err)
	assert.Equal(t, want, cfg.ProjectRoot, "symlinked root must canonicalize to its target")
}

func TestLoadGuardsArmOnAnyValue(t *testing.T) {
	// The guards mirror a presence check, not a boolean parse: the
	// preprocessor child exports the variable, whatever the value.
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"one", "1", true},
		{"word", "yes", true},
		{"zero still arms", "0", true},
		{"empty stays off", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearHookEnv(t)
			t.Setenv(buildenv.EnvSkipPreprocess, tt.value)
			t.Setenv(buildenv.EnvSkipTargets, tt.value)

			cfg := buildenv.Load()
			assert.Equal(t, tt.want, cfg.SkipPreprocess)
			assert.Equal(t, tt.want, cfg.SkipTargets)
		})
	}
}

func TestLoadIgnoresUnprefixedVariables(t *testing.T) {
	clearHookEnv(t)
	t.Setenv("PROJECT_ROOT", t.TempDir())
	t.Setenv("COMPILER", "gcc")

	cfg := buildenv.Load()

	assert.Empty(t, cfg.ProjectRoot)
	assert.Empty(t, cfg.Compiler)
}
