package infrastructure

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	apperrors "nycsales/internal/errors"
)

// contextKey is a type for context keys
type contextKey string

// RunIDContextKey is the key for storing the pipeline run ID in context
const RunIDContextKey contextKey = "run_id"

// NewRunID creates a new unique run ID using UUID v4
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if runID, ok := ctx.Value(RunIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// EnsureRunID ensures the context has a run ID, generating one if needed
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) == "" {
		return WithRunID(ctx, NewRunID())
	}
	return ctx
}

// WithError creates a logger with an error field. Application errors also
// carry their type and context as separate attributes.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	logger = logger.With("error", err.Error())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		logger = logger.With("error_type", string(appErr.Type))
		if detail := appErr.Detail(); detail != "" {
			logger = logger.With("error_context", detail)
		}
	}
	return logger
}
