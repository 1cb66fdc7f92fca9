package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a random UUID used when no span or upstream
// header supplies an ID.
func GenerateTraceID() string {
	return uuid.NewString()
}

// EnsureTraceID returns ctx unchanged when it already carries a trace ID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, GenerateTraceID())
}

// WithComponent tags every record from logger with the emitting component,
// e.g. "websocket.hub".
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// WithError attaches err as the "error" attribute. A nil err is a no-op.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err != nil {
		logger = logger.With(slog.String("error", err.Error()))
	}
	return logger
}
