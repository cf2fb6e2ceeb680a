// Package debug provides opt-in debug logging using log/slog.
// The connector logs compiled queries and migration steps here; output is
// discarded unless enabled via Init or the CYPHER_GO_DEBUG env var.
package debug

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	mu     sync.RWMutex
)

func init() {
	Init(os.Getenv("CYPHER_GO_DEBUG") != "")
}

// Init initializes the debug logger.
// When enable is true, debug logs are written to os.Stderr; otherwise
// logging is silently discarded.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelDebug
	if !enable {
		// A level above Error discards everything.
		level = slog.LevelError + 1
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, args...)
}
