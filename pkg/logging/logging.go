package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables controlling the diagnostic stream
const (
	// EnvLogFile enables hook diagnostics. Its value is the log file path,
	// or a bare "1"/"true"/"yes"/"on" to use the default location under
	// the XDG state directory.
	EnvLogFile = "C2RUST_HOOK_LOG"

	// EnvDebug raises the log level from info to debug
	EnvDebug = "C2RUST_HOOK_DEBUG"
)

// DefaultLogRelPath is the log location used when EnvLogFile is truthy but
// does not name a path, relative to the XDG state directory.
const DefaultLogRelPath = "c2rust-build/hook.log"

// Setup configures the global logger for one hook invocation.
//
// The hook runs inside observed compiler/linker/archiver processes and must
// never write to their stdout or stderr, so diagnostics only ever go to a
// file. With EnvLogFile unset, or when the file cannot be opened, the logger
// is disabled entirely and the hook stays silent.
func Setup() {
	target := os.Getenv(EnvLogFile)
	if target == "" {
		log.Logger = zerolog.Nop()
		return
	}

	logFile := target
	switch target {
	case "1", "true", "yes", "on":
		path, err := xdg.StateFile(DefaultLogRelPath)
		if err != nil {
			log.Logger = zerolog.Nop()
			return
		}
		logFile = path
	}

	handle, err := openLogFile(logFile)
	if err != nil {
		log.Logger = zerolog.Nop()
		return
	}

	level := zerolog.InfoLevel
	if os.Getenv(EnvDebug) != "" {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(handle).Level(level).With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// openLogFile creates the log file and its parent directories
func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}

	// Append mode: every tool process of a parallel build shares one file
	return os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// LogDuration logs the duration of an operation
func LogDuration(logger zerolog.Logger, start time.Time, operation string) {
	logger.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation completed")
}
