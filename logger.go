package trackgo

import (
	"log/slog"
	"os"

	"github.com/hupe1980/trackgo/model"
)

// Logger wraps slog.Logger with trackgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithView adds a view field to the logger.
func (l *Logger) WithView(v model.ViewID) *Logger {
	return &Logger{
		Logger: l.Logger.With("view", uint32(v)),
	}
}

// WithPair adds a view-pair field to the logger.
func (l *Logger) WithPair(p model.Pair) *Logger {
	return &Logger{
		Logger: l.Logger.With("pair", p.String()),
	}
}

// WithTrack adds a track field to the logger.
func (l *Logger) WithTrack(id model.TrackID) *Logger {
	return &Logger{
		Logger: l.Logger.With("track", uint32(id)),
	}
}
