package prison

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with prison-specific context.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable
	}))}
}

// WithInstance tags the logger with the owning Prison's instance id.
func (l *Logger) WithInstance(id uuid.UUID) *Logger {
	return &Logger{Logger: l.Logger.With("instance", id.String())}
}

// LogMalfunction logs a MajorMalfunction diagnostic.
func (l *Logger) LogMalfunction(reason string) {
	l.Error("major malfunction", "reason", reason)
}

// LogStructural logs the outcome of a structural operation (insert/
// remove/overwrite/clear/grow) at debug level: success when err is nil,
// otherwise the gate rejection — these are expected, caller-recoverable
// outcomes, not malfunctions. Every Prison method
// runs synchronously to completion with no blocking point, so this
// takes no context.Context.
func (l *Logger) LogStructural(op string, err error) {
	if err == nil {
		l.Debug("structural op ok", "op", op)
		return
	}
	l.Debug("structural op rejected", "op", op, "error", err)
}
