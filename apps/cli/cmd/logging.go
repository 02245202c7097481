package cmd

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w at Warn, or Debug when debug is set.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
