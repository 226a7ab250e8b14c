// Package logging provides the structured logger used across podium.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler used for output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger is a structured logger for podium components
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to w with the component field attached.
func New(w io.Writer, component string, level slog.Level, format Format) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "podium"),
	)

	return &Logger{Logger: logger}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithDeck returns a logger with deck-specific fields
func (l *Logger) WithDeck(deckID, path string) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("deck_id", deckID),
			slog.String("deck_path", path),
		),
	}
}

// WithSlide returns a logger with slide-specific fields
func (l *Logger) WithSlide(number int) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.Int("slide", number),
		),
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
