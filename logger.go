package learnsphere

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger defines the interface for logging operations
type Logger interface {
	// Errorf logs an error message with formatting
	Errorf(format string, args ...interface{})
	// Infof logs an informational message with formatting
	Infof(format string, args ...interface{})
	// Debugf logs a diagnostic message with formatting
	Debugf(format string, args ...interface{})
}

// SlogLogger adapts a *slog.Logger to Logger
type SlogLogger struct {
	logger *slog.Logger
}

// Errorf implements Logger.Errorf
func (l *SlogLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

// Infof implements Logger.Infof
func (l *SlogLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Debugf implements Logger.Debugf
func (l *SlogLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// NewSlogLogger creates a text slog logger writing to writer at the given level.
// If writer is nil, os.Stderr is used as the default
func NewSlogLogger(writer io.Writer, level slog.Level) *SlogLogger {
	if writer == nil {
		writer = os.Stderr
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler).With("component", "learnsphere")}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Errorf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Debugf(string, ...interface{}) {}

// DefaultLogger is the default logger instance that writes to os.Stderr
var DefaultLogger Logger = NewSlogLogger(os.Stderr, slog.LevelInfo)
