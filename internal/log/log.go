// Package log provides structured logging for caredash.
// Logging is disabled by default because the TUI owns the terminal;
// enable it with --log-file to write debug output to a file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for files opened by EnableFile.
const (
	maxFileSizeMB  = 10
	maxFileBackups = 3
)

var (
	mu      sync.RWMutex
	logger  = slog.New(discardHandler{})
	level   = new(slog.LevelVar)
	enabled bool
	file    io.Closer
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Enable routes log output to w at debug level.
func Enable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	level.Set(slog.LevelDebug)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	enabled = true
}

// EnableFile logs to path, rotating it once it grows past maxFileSizeMB.
// The parent directory must exist.
func EnableFile(path string) error {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return err
	}
	f := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxFileSizeMB,
		MaxBackups: maxFileBackups,
	}
	Enable(f)
	mu.Lock()
	file = f
	mu.Unlock()
	return nil
}

// Disable stops logging and closes any log file opened by EnableFile.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = slog.New(discardHandler{})
	enabled = false
}

func closeFileLocked() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

// IsEnabled reports whether logging is active.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetLevel sets the minimum level that will be written.
func SetLevel(l slog.Level) {
	level.Set(l)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a logger that always includes the given attributes.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }
func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }
func Error(msg string, args ...any) { current().Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	current().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	current().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	current().ErrorContext(ctx, msg, args...)
}
