// Package logging threads a request scoped slog logger through contexts so
// handlers and services annotate one shared logger per request instead of
// rebuilding their own.
package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const loggerKey ctxKey = iota

// ContextWithLogger stores logger in a derived context. Nil inputs leave the
// context unchanged so call sites can chain without guards.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored by ContextWithLogger, or nil when
// the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey).(*slog.Logger)
	return logger
}

// Scoped resolves the effective logger for one operation: the context logger
// when present, otherwise fallback, otherwise the process default. The
// result carries the given attributes.
func Scoped(ctx context.Context, fallback *slog.Logger, attrs ...any) *slog.Logger {
	logger := FromContext(ctx)
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
