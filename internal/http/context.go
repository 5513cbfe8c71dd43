package http

import (
	"context"
	"log/slog"

	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/logging"
)

type contextKey string

const callerContextKey contextKey = "caller"

// ContextWithCaller returns a derived context carrying the authenticated
// caller identity.
func ContextWithCaller(ctx context.Context, caller booking.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext extracts the authenticated caller from context.
func CallerFromContext(ctx context.Context) (booking.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(booking.Caller)
	return caller, ok
}

// ContextWithLogger attaches a request-scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request-scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
