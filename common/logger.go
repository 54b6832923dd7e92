package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by every engine package. By default nothing is logged.
// Passing nil restores the silent default. Safe for concurrent use.
//
// Levels in use:
//   - slog.LevelDebug: per-object lifecycle (vertex array built/destroyed, skipped attributes)
//   - slog.LevelInfo: executor start/stop, profiler samples
//   - slog.LevelWarn: recovered task panics, resources leaked because the executor was closed
//
// Parameters:
//   - l: the logger to install, or nil
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the currently installed logger.
//
// Returns:
//   - *slog.Logger: the active logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
