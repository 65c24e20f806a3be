package pointgraph

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with pointgraph-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun tags every record with the run ID of one unit of work.
func (l *Logger) WithRun(id uuid.UUID) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id.String()),
	}
}

// WithUnit adds the stage name.
func (l *Logger) WithUnit(unit string) *Logger {
	return &Logger{
		Logger: l.Logger.With("unit", unit),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogConnect logs the outcome of a connect unit.
func (l *Logger) LogConnect(ctx context.Context, points, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "connect failed",
			"points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "connect completed",
			"points", points,
			"edges", edges,
		)
	}
}

// LogCompile logs a graph compilation.
func (l *Logger) LogCompile(ctx context.Context, nodes, edges int, err error) {
	if err != nil {
		l.WarnContext(ctx, "compile failed",
			"nodes", nodes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compile completed",
			"nodes", nodes,
			"edges", edges,
		)
	}
}

// LogChains logs a chain decomposition.
func (l *Logger) LogChains(ctx context.Context, chains int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "chain build failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "chains built",
			"chains", chains,
		)
	}
}

// LogSample logs a sampling unit.
func (l *Logger) LogSample(ctx context.Context, points, successes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sampling failed",
			"points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "sampling completed",
			"points", points,
			"successes", successes,
		)
	}
}

// LogSkipped logs a unit skipped without failing its siblings.
func (l *Logger) LogSkipped(ctx context.Context, reason error) {
	l.InfoContext(ctx, "unit skipped",
		"reason", reason,
	)
}

// LogBatch logs a batch of units.
func (l *Logger) LogBatch(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.InfoContext(ctx, "batch completed",
			"count", count,
		)
	}
}
