// Package clog carries a *zap.Logger through a context.Context instead of a
// package-level global, so the driver and passes never touch process-wide
// mutable state.
package clog

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// New builds a logger for the given verbosity. verbosity <= 0 returns a
// no-op logger; verbosity >= 1 returns a development logger, and verbosity
// >= 2 additionally enables debug level.
func New(verbosity int) *zap.Logger {
	if verbosity <= 0 {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	if verbosity < 2 {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewFromEnv builds a logger from the CHISEL_LOG_LEVEL environment variable
// (an integer verbosity passed to New; unset or non-numeric is treated as 0),
// for CLI startup convenience.
func NewFromEnv() *zap.Logger {
	return New(levelFromEnv())
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a no-op logger if none
// was attached. It never returns nil.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
