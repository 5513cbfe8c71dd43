package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/room-lending/internal/auth"
	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/directory"
)

var (
	errBadRequestBody      = errors.New("invalid request format")
	errInvalidRoomID       = errors.New("invalid room id")
	errInvalidBookingID    = errors.New("invalid booking id")
	errMissingSessionToken = errors.New("authentication token required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps engine, directory, and auth failures to transport
// statuses, surfacing the tagged message verbatim.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var engineErr *booking.Error
	if errors.As(err, &engineErr) {
		r.writeJSON(ctx, w, statusForKind(engineErr.Kind), errorResponse{Message: engineErr.Message})
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[strings.ToLower(fe.Field())] = "failed validation on " + fe.Tag()
		}
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "request validation failed",
			Errors:  details,
		})
		return
	}

	switch {
	case errors.Is(err, errBadRequestBody):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: errBadRequestBody.Error()})
	case errors.Is(err, directory.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "no record found with provided email or id"})
	case errors.Is(err, directory.ErrDuplicateEmail):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "email is already registered"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: "invalid email or password"})
	case errors.Is(err, auth.ErrSessionExpired):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: "session expired, please log in again"})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusForKind(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindBadRequest:
		return http.StatusBadRequest
	case booking.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
