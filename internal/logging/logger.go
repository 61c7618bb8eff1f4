package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DebugEnvVar enables debug level logging when set to any non-empty value.
const DebugEnvVar = "TM_DEBUG"

type contextKey string

const loggerKey contextKey = "logger"

// Options controls how New builds a logger.
type Options struct {
	// Console selects the human readable console writer instead of JSON lines.
	Console bool
	// Verbose lowers the level to debug.
	Verbose bool
}

// DebugEnabled returns true if debug mode is enabled via TM_DEBUG.
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// New creates a logger writing to stderr.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stderr, opts)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	if opts.Verbose || DebugEnabled() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
