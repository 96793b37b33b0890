// Package logging provides structured logging for the frame gateway.
//
// It wraps github.com/charmbracelet/log for structured, leveled logging,
// and integrates with context.Context for request-scoped loggers. The
// hot path never logs (spec.md §5's no-suspension-point rule rules out
// even buffered logging there); this package exists for management
// operations and lifecycle events only.
package logging

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// ctxKey is the context key for the logger.
type ctxKey struct{}

var (
	// defaultLogger is the global logger instance.
	defaultLogger *log.Logger
	// loggerMu protects defaultLogger.
	loggerMu sync.RWMutex
)

func init() {
	defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
	})
}

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum log level.
	Level log.Level
	// Format is the output format ("text" or "json").
	Format string
	// Output is the log output destination.
	Output io.Writer
	// ReportCaller adds source file information to log entries.
	ReportCaller bool
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(cfg Config) *log.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	logger := log.NewWithOptions(cfg.Output, log.Options{
		Level:           cfg.Level,
		ReportTimestamp: true,
		ReportCaller:    cfg.ReportCaller,
	})
	if cfg.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// SetDefault sets the default global logger.
func SetDefault(logger *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// Default returns the default global logger.
func Default() *log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithOperation returns a logger with management-operation context
// ("add", "del", "list").
func WithOperation(logger *log.Logger, op string) *log.Logger {
	return logger.With("operation", op)
}

// WithInterface returns a logger with interface-index context.
func WithInterface(logger *log.Logger, iface uint32) *log.Logger {
	return logger.With("iface", iface)
}

// WithJob returns a logger with job src/dst context.
func WithJob(logger *log.Logger, src, dst uint32) *log.Logger {
	return logger.With("src", src, "dst", dst)
}

// ContextWithLogger returns a new context with the logger attached.
func ContextWithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger from context.
// If no logger is found, returns the default logger.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return logger
	}
	return Default()
}

// ParseLevel parses a log level string. Returns log.InfoLevel for
// invalid values.
func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// Helper functions for common log patterns, mirroring the default
// logger's own Info/Warn/Error/Debug signatures.

// Info logs an info message using the default logger.
func Info(msg string, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

// Error logs an error message using the default logger.
func Error(msg string, keyvals ...any) {
	Default().Error(msg, keyvals...)
}

// Debug logs a debug message using the default logger.
func Debug(msg string, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}
