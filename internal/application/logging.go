package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/room-booking/internal/logging"
)

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	return logging.Scoped(ctx, base, "service", serviceName, operation, attrs...)
}

// ErrorKind labels an error for the error_kind log attribute. Overlapping
// bookings get their own label so they can be told apart from other conflicts.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var (
		conflict *ConflictError
		vErr     *ValidationError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &conflict) && conflict.Reason == ReasonRoomOverlap:
		return "overlap"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.As(err, &vErr):
		return "validation"
	}
	return "unexpected"
}
