// Package logging configures the structured slog logger used across menusvc.
//
// Logs are JSON on stderr. Every record carries the module and version;
// debug level also records the source location. LOG_LEVEL selects the level
// (debug, info, warn/warning, error; case-insensitive, info by default).
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable that selects the level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New returns a JSON logger writing to w.
func New(w io.Writer, module, version, level string) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With("module", module, "version", version)
}

// SetDefault installs a stderr logger as the slog default. An empty level
// falls back to LOG_LEVEL.
func SetDefault(module, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	logger := New(os.Stderr, module, version, level)
	slog.SetDefault(logger)
	return logger
}

// NewLogLogger adapts the default slog logger for APIs that want a *log.Logger.
func NewLogLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), level)
}
