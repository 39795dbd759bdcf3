package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/guestwise/guestflow/pkg/models"
)

// mapEngineError maps engine errors to an HTTP status and a safe
// client-facing message.
func mapEngineError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrEmptyMessage):
		return http.StatusBadRequest, "message must not be empty"
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 499, "request cancelled"
	}

	slog.Error("Unexpected engine error", "error", err)
	return http.StatusInternalServerError, "internal server error"
}
