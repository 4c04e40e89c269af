// Package logging provides a structured logging interface used across the
// oauthconnect plugins, with helpers for carrying a scoped logger on a
// context.Context.
package logging

import (
	"context"
	"sync"
)

type ctxkey struct {
	logger Logger
}

// With attaches a logger to the context.
//
// This can be used to create logging scopes like so:
//
//	ctx := logging.With(ctx, logger.Named(provider))
//	store.DelUser(ctx, provider, userID)
func With(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ctxkey{}, &ctxkey{
		logger: logger,
	})
}

// FromContext returns a scoped logger, or nil if none has been attached.
func FromContext(ctx context.Context) Logger {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok {
		return c.logger
	}
	return nil
}

// Track a field across the lifetime of the context. Tracked values persist
// back up the call-chain to whoever attached the logger, so do not use this
// inside loops without creating a new scope first.
func Track(ctx context.Context, field string, value interface{}) {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok {
		c.logger = c.logger.With(field, value)
	}
}

// Logger provides an abstract logging interface designed around uber-go/zap's
// sugared logger, but is intended to provide interop with other libraries.
type Logger interface {
	Debug(args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Debugf(msg string, args ...interface{})
	Info(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Infof(msg string, args ...interface{})
	Warn(args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Warnf(msg string, args ...interface{})
	Error(args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Errorf(msg string, args ...interface{})

	// Named creates a child logger with the given name.
	Named(name string) Logger

	// With creates a child logger and attaches structured context to it.
	With(field string, value interface{}) Logger
}

var (
	fallback     Logger
	fallbackOnce sync.Once
)

// Contexts handed to this library by the host don't always carry a logger, so
// the package-level helpers fall back to a shared dev logger.
func fromContextOrDefault(ctx context.Context) Logger {
	if l := FromContext(ctx); l != nil {
		return l
	}
	fallbackOnce.Do(func() {
		fallback = NewDevLogger()
	})
	return fallback
}

func Debug(ctx context.Context, msg string) {
	fromContextOrDefault(ctx).Debug(msg)
}

func Debugw(ctx context.Context, msg string, fields ...interface{}) {
	fromContextOrDefault(ctx).Debugw(msg, fields...)
}

func Debugf(ctx context.Context, msg string, args ...interface{}) {
	fromContextOrDefault(ctx).Debugf(msg, args...)
}

func Info(ctx context.Context, msg string) {
	fromContextOrDefault(ctx).Info(msg)
}

func Infow(ctx context.Context, msg string, fields ...interface{}) {
	fromContextOrDefault(ctx).Infow(msg, fields...)
}

func Infof(ctx context.Context, msg string, args ...interface{}) {
	fromContextOrDefault(ctx).Infof(msg, args...)
}

func Warn(ctx context.Context, msg string) {
	fromContextOrDefault(ctx).Warn(msg)
}

func Warnw(ctx context.Context, msg string, fields ...interface{}) {
	fromContextOrDefault(ctx).Warnw(msg, fields...)
}

func Warnf(ctx context.Context, msg string, args ...interface{}) {
	fromContextOrDefault(ctx).Warnf(msg, args...)
}

func Error(ctx context.Context, msg string) {
	fromContextOrDefault(ctx).Error(msg)
}

func Errorw(ctx context.Context, msg string, fields ...interface{}) {
	fromContextOrDefault(ctx).Errorw(msg, fields...)
}

func Errorf(ctx context.Context, msg string, args ...interface{}) {
	fromContextOrDefault(ctx).Errorf(msg, args...)
}
