// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger configures the process-wide slog logger for the CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the CLI verbosity flags to a slog level. Warnings are always
// shown so fail-safe fallbacks stay visible.
func Level(debug, verbose bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New builds a PrettyHandler logger writing to w.
func New(w io.Writer, debug, verbose bool) *slog.Logger {
	return slog.New(NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     Level(debug, verbose),
		AddSource: debug,
	}))
}

// Initialize installs a logger writing to w (stderr when nil) as the slog
// default and returns it.
func Initialize(w io.Writer, debug, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := New(w, debug, verbose)
	slog.SetDefault(l)
	return l
}
