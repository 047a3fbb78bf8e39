// Command c2rust-hook is the tool shim a hooked build runs in place of its
// compiler, linker, and archiver. The build orchestrator materializes a
// directory of symlinks (gcc, clang, cc, ld, ar → this binary) and prepends
// it to PATH, so every tool process the build spawns starts here: the hook
// observes the invocation, arms the guard variables its descendants rely
// on, then replaces itself with the real tool. Exit status, stdout and
// stderr are the real tool's own.
//
// The shim takes no flags: os.Args belongs to the wrapped tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/LuuuXXX/c2rust-build/internal/version"
	"github.com/LuuuXXX/c2rust-build/pkg/buildenv"
	"github.com/LuuuXXX/c2rust-build/pkg/hook"
	"github.com/LuuuXXX/c2rust-build/pkg/logging"
	"github.com/LuuuXXX/c2rust-build/pkg/realtool"
)

func main() {
	logging.Setup()
	logger := logging.GetLogger("shim")

	prog := filepath.Base(os.Args[0])
	logger.Debug().Str("prog", prog).Str("version", version.Version).Msg("shim start")

	// A process whose working directory vanished can still run its real
	// tool; it just observes nothing.
	var res hook.Result
	if dir, err := os.Getwd(); err == nil {
		res = hook.Run(buildenv.Load(), hook.Invocation{
			Prog: prog,
			Args: os.Args[1:],
			Dir:  dir,
		})
	}

	if res.PreprocessAttempted {
		os.Setenv(buildenv.EnvSkipPreprocess, "1")
	}
	if len(res.SavedTargets) > 0 {
		os.Setenv(buildenv.EnvSkipTargets, "1")
	}

	realPath, err := realtool.Look(prog)
	if err != nil {
		logger.Error().Err(err).Str("prog", prog).Msg("no real tool behind the shim")
		fmt.Fprintf(os.Stderr, "%s: command not found\n", prog)
		os.Exit(127)
	}

	logger.Debug().Str("prog", prog).Str("real", realPath).Msg("handing over")
	if err := syscall.Exec(realPath, os.Args, os.Environ()); err != nil {
		logger.Error().Err(err).Str("real", realPath).Msg("exec failed")
		fmt.Fprintf(os.Stderr, "%s: %v\n", realPath, err)
		os.Exit(126)
	}
}
