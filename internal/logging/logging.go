// Package logging configures colored structured logging with tint.
//
// LOG_LEVEL selects the level (debug, info, warn, error; default warn so
// listings stay clean). --debug overrides it.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// EnvLevel is the environment variable read by LevelFromEnv.
const EnvLevel = "LOG_LEVEL"

// Setup installs a tint handler on w as the default slog logger. Color is
// only used when w is a terminal.
func Setup(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(w, level)))
}

// NewHandler returns the handler Setup installs.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
}

// Level picks debug when debug is set, otherwise LevelFromEnv.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return LevelFromEnv()
}

// LevelFromEnv parses LOG_LEVEL.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLevel))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
