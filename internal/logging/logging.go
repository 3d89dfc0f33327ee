// Package logging builds the structured logger shared by the http and
// sql host adapters: a level table and a text-vs-json format switch
// defaulting to stderr, built directly on log/slog rather than a
// hand-rolled global logger config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog.Handler used by New.
type Format string

const (
	// Text renders one line per record, the default.
	Text Format = "text"
	// JSON renders one JSON object per record.
	JSON Format = "json"
)

// Config controls logger construction. The zero value yields a text
// logger at Info level writing to stderr.
type Config struct {
	Format Format
	Level  slog.Level
	Output io.Writer
}

// New builds a logger per cfg: one construction-time Config rather
// than three runtime-mutable global setters, since nothing here needs
// a single logger shared and mutated across the whole process.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h)
}

// ParseLevel maps debug|info|warn|error|fatal level names onto
// slog.Level. Fatal has no slog equivalent (slog has no built-in level
// above Error, and this runtime has no process-exiting log call), so it
// maps to Error.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat maps "text"/"json" onto Format, defaulting to Text for
// anything else.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == "json" {
		return JSON
	}
	return Text
}
