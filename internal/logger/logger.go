// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init installs the default logger: human-readable text in development or
// when debug is set, JSON otherwise.
func Init(env string, debug bool) {
	InitWriter(os.Stdout, env, debug)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, env string, debug bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if debug || env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Default returns the default logger instance.
func Default() *slog.Logger {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return defaultLogger
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
