// Package logging sets up the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

var osOpenFile = os.OpenFile

// Setup installs a tint handler as the default logger. The terminal belongs
// to the user interface, so a non-empty file receives the log; "-" means
// stderr. The returned closer releases the file.
func Setup(level, file string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}
	var w io.Writer = os.Stderr
	closer := io.Closer(nopCloser{})
	if file != "" && file != "-" {
		f, err := osOpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	logger := New(w, lvl, w != os.Stderr)
	slog.SetDefault(logger)
	return logger, closer, nil
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// Discard is a logger for tests and quiet runs.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError, true)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
