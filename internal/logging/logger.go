// Package logging wraps log/slog with the level and output conventions used
// across the orbit visualizer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable that selects the log level.
const EnvLevel = "ORBITS_LOG_LEVEL"

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// New returns a text logger writing to w at the level selected by ORBITS_LOG_LEVEL.
func New(w io.Writer) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromEnv(),
	})
	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// Open returns a logger for the given destination: "" means stderr, "-" means
// discard, anything else is a file opened for appending. The returned closer
// must be called on shutdown.
func Open(dest string) (*Logger, io.Closer, error) {
	switch dest {
	case "":
		return New(os.Stderr), io.NopCloser(nil), nil
	case "-":
		return Discard(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, WrapError(err, "open log file %s", dest)
	}
	return New(f), f, nil
}

// Failure logs err at error level with msg and the extra attributes.
func (l *Logger) Failure(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.Error(msg, args...)
}

// LevelFromEnv parses ORBITS_LOG_LEVEL. Unknown values fall back to INFO.
func LevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv(EnvLevel)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WrapError wraps err with a formatted context message. A nil err stays nil.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
