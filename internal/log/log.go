package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configure New.
type Options struct {
	// Level is debug, info, warn or error. Empty discards all output.
	Level string

	// File, when set, receives JSON records instead of Stderr.
	File       string
	MaxSize    int64
	MaxBackups int

	// Stderr receives text records when File is empty (default os.Stderr).
	Stderr io.Writer
}

// ParseLevel parses a level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (debug|info|warn|error)", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a redacting logger. The returned closer releases the log
// file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if strings.TrimSpace(opts.Level) == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	if opts.File != "" {
		rf, err := NewRotatingFile(opts.File, opts.MaxSize, opts.MaxBackups)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(NewRedactingHandler(slog.NewJSONHandler(rf, hopts))), rf, nil
	}

	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, hopts))), nopCloser{}, nil
}
