// Package logging sets up the structured logger shared by every focus
// command. Records are written as JSON to a size-rotated file so that a
// TUI session never prints over its own screen.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 28
)

// Config configures the logger.
type Config struct {
	Output io.Writer
	Path   string
	Level  string
}

// ParseLevel maps a config value to a slog level. Unknown values fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a JSON logger. Output takes precedence over Path; with
// neither set, records are discarded. The returned closer releases the log
// file.
func New(cfg Config) (*slog.Logger, io.Closer) {
	out := cfg.Output

	var closer io.Closer = nopCloser{}

	if out == nil && cfg.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}

		out, closer = lj, lj
	}

	if out == nil {
		out = io.Discard
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})

	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
