// Package dispatch routes a classified hook event to at most one handler.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
)

// Handler reacts to one classified event.
type Handler interface {
	Handle(ctx context.Context, evt hook.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt hook.Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt hook.Event) error {
	return f(ctx, evt)
}

// MiddlewareFunc wraps handlers to add cross-cutting concerns.
type MiddlewareFunc func(next Handler) Handler

// ChainMiddleware applies middleware in order, with first middleware outermost.
func ChainMiddleware(handler Handler, middleware ...MiddlewareFunc) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// PanicError is returned when a handler panics.
type PanicError struct {
	Kind  hook.Kind
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s handler panic: %v", e.Kind, e.Value)
}

// RecoveryMiddleware turns handler panics into a *PanicError.
func RecoveryMiddleware() MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, evt hook.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Kind: evt.Kind(), Value: r}
				}
			}()
			return next.Handle(ctx, evt)
		})
	}
}

// LoggingMiddleware logs each handler call at debug level.
func LoggingMiddleware(logger *slog.Logger) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, evt hook.Event) error {
			start := time.Now()
			err := next.Handle(ctx, evt)
			if logger != nil {
				logger.Debug("handler returned",
					slog.String("kind", evt.Kind().String()),
					slog.Duration("duration", time.Since(start)),
					slog.Bool("error", err != nil),
				)
			}
			return err
		})
	}
}
