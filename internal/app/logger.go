// Package app holds the wiring shared by the command-line tools: logging setup,
// scene loading into passes, and scene file watching.
package app

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w at the named level, and installs
// it as the slog default so library components that were not handed a logger
// use it too.
//
// Parameters:
//   - w: the log destination
//   - level: "debug", "info", "warn" or "error", case-insensitive
//
// Returns:
//   - *slog.Logger: the logger
//   - error: an error if level is not a known level name
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, nil
}
