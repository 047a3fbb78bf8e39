package realtool_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuuuXXX/c2rust-build/pkg/errors"
	"github.com/LuuuXXX/c2rust-build/pkg/realtool"
)

// writeTool drops an executable shell stub named name into dir.
func writeTool(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))
	return path
}

// linkSelf creates a symlink named name in dir pointing at the running test
// binary, imitating the shim directory the orchestrator builds.
func linkSelf(t *testing.T, dir, name string) {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	require.NoError(t, os.Symlink(exe, filepath.Join(dir, name)))
}

func TestLookFindsToolOnPath(t *testing.T) {
	dir := t.TempDir()
	want := writeTool(t, dir, "gcc")
	t.Setenv("PATH", dir)

	got, err := realtool.Look("gcc")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookSkipsOwnShimLink(t *testing.T) {
	shimDir := t.TempDir()
	realDir := t.TempDir()
	linkSelf(t, shimDir, "gcc")
	want := writeTool(t, realDir, "gcc")

	t.Setenv("PATH", shimDir+string(os.PathListSeparator)+realDir)

	got, err := realtool.Look("gcc")
	require.NoError(t, err)
	assert.Equal(t, want, got, "the shim's own symlink must be stepped over")
}

func TestLookOnlyShimOnPath(t *testing.T) {
	shimDir := t.TempDir()
	linkSelf(t, shimDir, "cc")
	t.Setenv("PATH", shimDir)

	_, err := realtool.Look("cc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolNotFound))
}

func TestLookSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ld"), []byte("not a program"), 0644))
	realDir := t.TempDir()
	want := writeTool(t, realDir, "ld")

	t.Setenv("PATH", dir+string(os.PathListSeparator)+realDir)

	got, err := realtool.Look("ld")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookMissingTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := realtool.Look("some-unheard-of-tool")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolNotFound))
}

func TestLookDirectPath(t *testing.T) {
	dir := t.TempDir()
	tool := writeTool(t, dir, "ar")

	t.Run("executable path is returned as-is", func(t *testing.T) {
		got, err := realtool.Look(tool)
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	})

	t.Run("path to the hook itself is refused", func(t *testing.T) {
		linkSelf(t, dir, "self-link")
		_, err := realtool.Look(filepath.Join(dir, "self-link"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrToolNotFound))
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := realtool.Look(filepath.Join(dir, "nothing-here"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrToolNotFound))
	})
}

func TestLookEmptyName(t *testing.T) {
	_, err := realtool.Look("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLookFirstMatchWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	want := writeTool(t, first, "clang")
	writeTool(t, second, "clang")

	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	got, err := realtool.Look("clang")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
