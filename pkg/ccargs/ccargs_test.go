package ccargs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuuuXXX/c2rust-build/pkg/ccargs"
)

// newProject lays out a small C project and returns its canonical root.
func newProject(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0644))
	}
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return resolved
}

func TestExtractRealisticCompileLine(t *testing.T) {
	root := newProject(t, "src/main.c")

	args := []string{"-c", "-O2", "-Wall", "-Iinclude", "-DNDEBUG", "src/main.c", "-o", "build/main.o"}
	ex := ccargs.Extract(args, root, root)

	assert.Equal(t, []string{"-Iinclude", "-DNDEBUG"}, ex.Flags)
	assert.Equal(t, []string{filepath.Join(root, "src/main.c")}, ex.Sources)
	assert.Equal(t, "build/main.o", ex.Output)
}

func TestExtractFlagFormsPreserveOrder(t *testing.T) {
	args := []string{
		"-Iinclude",
		"-I", "vendor/inc",
		"-DFOO=1",
		"-D", "BAR",
		"-U", "BAZ",
		"-UQUX",
		"-include", "config.h",
		"-std=c99",
	}
	ex := ccargs.Extract(args, t.TempDir(), "")

	want := []string{
		"-Iinclude",
		"-I", "vendor/inc",
		"-DFOO=1",
		"-D", "BAR",
		"-U", "BAZ",
		"-UQUX",
		"-include", "config.h",
		"-std=c99",
	}
	assert.Equal(t, want, ex.Flags)
}

func TestExtractDanglingSeparatedFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"dangling -I", []string{"-c", "-I"}, []string{"-I"}},
		{"dangling -D", []string{"-D"}, []string{"-D"}},
		{"dangling -U", []string{"-U"}, []string{"-U"}},
		{"dangling -include", []string{"-include"}, []string{"-include"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := ccargs.Extract(tt.args, t.TempDir(), "")
			assert.Equal(t, tt.want, ex.Flags)
		})
	}
}

func TestExtractOutput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separated", []string{"-o", "out.o"}, "out.o"},
		{"attached", []string{"-oout.o"}, "out.o"},
		{"dangling -o", []string{"-o"}, ""},
		{"absent", []string{"-c", "x.c"}, ""},
		{"last wins", []string{"-o", "a.o", "-o", "b.o"}, "b.o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := ccargs.Extract(tt.args, t.TempDir(), "")
			assert.Equal(t, tt.want, ex.Output)
			assert.NotContains(t, ex.Flags, "-o")
		})
	}
}

func TestExtractStdRequiresAttachedValue(t *testing.T) {
	ex := ccargs.Extract([]string{"-std=gnu11", "-std"}, t.TempDir(), "")
	assert.Equal(t, []string{"-std=gnu11"}, ex.Flags)
}

func TestExtractSourceAdmission(t *testing.T) {
	root := newProject(t, "main.c", "lib/util.c", "main.cpp")

	t.Run("relative path resolves against workDir", func(t *testing.T) {
		ex := ccargs.Extract([]string{"lib/util.c"}, root, root)
		assert.Equal(t, []string{filepath.Join(root, "lib/util.c")}, ex.Sources)
	})

	t.Run("absolute path accepted", func(t *testing.T) {
		abs := filepath.Join(root, "main.c")
		ex := ccargs.Extract([]string{abs}, "/", root)
		assert.Equal(t, []string{abs}, ex.Sources)
	})

	t.Run("non-c positional ignored", func(t *testing.T) {
		ex := ccargs.Extract([]string{"main.cpp", "main.o"}, root, root)
		assert.Empty(t, ex.Sources)
	})

	t.Run("missing file ignored", func(t *testing.T) {
		ex := ccargs.Extract([]string{"ghost.c"}, root, root)
		assert.Empty(t, ex.Sources)
	})

	t.Run("file outside root ignored", func(t *testing.T) {
		outside := newProject(t, "other.c")
		ex := ccargs.Extract([]string{filepath.Join(outside, "other.c")}, root, root)
		assert.Empty(t, ex.Sources)
	})

	t.Run("no root admits any existing source", func(t *testing.T) {
		ex := ccargs.Extract([]string{"main.c"}, root, "")
		assert.Equal(t, []string{filepath.Join(root, "main.c")}, ex.Sources)
	})
}

func TestExtractSymlinkResolution(t *testing.T) {
	root := newProject(t, "real.c")

	t.Run("in-root symlink resolves to target", func(t *testing.T) {
		require.NoError(t, os.Symlink(filepath.Join(root, "real.c"), filepath.Join(root, "alias.c")))

		ex := ccargs.Extract([]string{"alias.c"}, root, root)
		assert.Equal(t, []string{filepath.Join(root, "real.c")}, ex.Sources)
	})

	t.Run("symlink escaping the root is rejected", func(t *testing.T) {
		outside := newProject(t, "escape.c")
		require.NoError(t, os.Symlink(filepath.Join(outside, "escape.c"), filepath.Join(root, "inroot.c")))

		ex := ccargs.Extract([]string{"inroot.c"}, root, root)
		assert.Empty(t, ex.Sources, "containment is checked on the resolved target")
	})
}

func TestExtractUnreadableSourceIgnored(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	root := newProject(t, "locked.c")
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.c"), 0000))

	ex := ccargs.Extract([]string{"locked.c"}, root, root)
	assert.Empty(t, ex.Sources)
}

func TestExtractEmptyArgs(t *testing.T) {
	ex := ccargs.Extract(nil, t.TempDir(), "")
	assert.Empty(t, ex.Flags)
	assert.Empty(t, ex.Sources)
	assert.Empty(t, ex.Output)
}
