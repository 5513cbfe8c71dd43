package http

import (
	"context"
	"log/slog"
)

// defaultLogger substitutes slog.Default for a nil logger so handlers can be
// constructed without one.
func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger derives the logger for a single handler invocation. The
// request-scoped logger installed by RequestLogger wins; the handler's own
// logger is the fallback. Every line carries the handler and operation names
// plus any extra attrs.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}
	pairs := append([]any{"handler", handlerName, "operation", operation}, attrs...)
	return logger.With(pairs...)
}
