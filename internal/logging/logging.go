// Package logging builds the JSON slog logger shared by the scanner and the
// CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup configures slog to write JSONL to stderr and, when logFile is not
// empty, to that file as well. The returned cleanup closes the file handle.
func Setup(logFile string, level slog.Level) (*slog.Logger, func(), error) {
	return setup(os.Stderr, logFile, level)
}

func setup(stderr io.Writer, logFile string, level slog.Level) (*slog.Logger, func(), error) {
	if logFile == "" {
		return newLogger(stderr, level), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = f.Close()
	}
	return newLogger(io.MultiWriter(stderr, f), level), cleanup, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
