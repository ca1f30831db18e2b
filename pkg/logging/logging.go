// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // level from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//	logger := logging.New(w, "warn")         // standalone logger, e.g. for tests
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetupWithLevel configures colored logging at the given level and installs
// it as the slog default.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(handler(os.Stderr, level, true)))
}

// New returns a tint logger writing to w at the named level. Colors are
// disabled so the output stays greppable.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(handler(w, ParseLevel(level), false))
}

func handler(w io.Writer, level slog.Level, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  color,
		NoColor:    !color,
	})
}

// ParseLevel maps debug, warn and error to their slog levels; anything else is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
