// Package logging sets up JSON-lines structured logging. The terminal belongs
// to the TUI, so logs normally go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	// Output is the writer for log output. File is used when Output is nil.
	Output io.Writer
	File   string
	Debug  bool
}

// New creates a JSON logger with the time key renamed to "ts". The returned
// close func releases the log file, if one was opened.
func New(cfg Config) (*slog.Logger, func() error, error) {
	out := cfg.Output
	closeFn := func() error { return nil }
	if out == nil {
		if cfg.File == "" {
			out = io.Discard
		} else {
			if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log dir: %w", err)
			}
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("open log file: %w", err)
			}
			out, closeFn = f, f.Close
		}
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	})
	return slog.New(handler), closeFn, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
