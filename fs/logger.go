package fs

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names the filesystem uses.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
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

// NewTextLogger creates a human-readable Logger writing to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithFile tags every record with a file name.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogOp logs the outcome of a file operation. Failures are expected
// user errors, so they go out at Warn rather than Error.
func (l *Logger) LogOp(op, name string, err error, attrs ...any) {
	fl := l.WithFile(name)
	args := append([]any{"op", op}, attrs...)
	if err != nil {
		fl.Warn("file operation failed", append(args, "error", err)...)
		return
	}
	fl.Debug("file operation completed", args...)
}

// LogFormat logs a format.
func (l *Logger) LogFormat(total uint32, err error) {
	if err != nil {
		l.Error("format failed",
			"blocks", total,
			"error", err,
		)
	} else {
		l.Info("device formatted",
			"blocks", total,
			"free", total-1,
		)
	}
}
