// Package logging wraps log/slog behind a small context-aware interface so
// services and the calendar worker can be tested with a discarding logger.
package logging

import "context"

// Logger takes key-value pairs after the message:
//
//	logger.Warn(ctx, "calendar create failed", "job_id", id, "error", err)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
