// Package logger implements the logging adapter on log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/droverbuild/drover/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger wraps a slog text handler writing to stderr, keeping stdout free
// for build command output.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
}

// New creates a Logger.
func New() *Logger {
	return &Logger{logger: newSlog(os.Stderr)}
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = newSlog(w)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}

func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
