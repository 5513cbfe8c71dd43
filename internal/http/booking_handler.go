package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/room-lending/internal/booking"
)

type bookingService interface {
	AddBooking(ctx context.Context, caller booking.Caller, params booking.AddBookingParams) (string, error)
	EditBooking(ctx context.Context, caller booking.Caller, params booking.EditBookingParams) (booking.Booking, error)
	DeleteBooking(ctx context.Context, caller booking.Caller, bookingID string) (string, error)
	GetAllBookings(ctx context.Context, caller booking.Caller) ([]booking.Booking, error)
	GetBookingByID(ctx context.Context, caller booking.Caller, bookingID string) (booking.Booking, error)
}

// BookingHandler serves the booking surface of the engine.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

// NewBookingHandler constructs the booking handler.
func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

type addBookingRequest struct {
	RoomID         string    `json:"room_id" validate:"required"`
	HostID         string    `json:"host_id,omitempty"`
	ParticipantIDs []string  `json:"participant_ids,omitempty"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
}

type editBookingRequest struct {
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	ParticipantIDs []string   `json:"participant_ids,omitempty"`
	Status         *string    `json:"status,omitempty"`
}

// Create reserves a room for an interval.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req addBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	caller, _ := CallerFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "caller_id", caller.ID, "room_id", req.RoomID)

	bookingID, err := h.service.AddBooking(r.Context(), caller, booking.AddBookingParams{
		RoomID:         req.RoomID,
		HostID:         req.HostID,
		ParticipantIDs: req.ParticipantIDs,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", bookingID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]string{"booking_id": bookingID})
}

// Update applies a partial edit to a booking visible to the caller.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	if strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req editBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.log(r.Context(), "Update", "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking update", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	caller, _ := CallerFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "caller_id", caller.ID, "booking_id", bookingID)

	var status *booking.BookingStatus
	if req.Status != nil {
		parsed := booking.BookingStatus(*req.Status)
		status = &parsed
	}

	updated, err := h.service.EditBooking(r.Context(), caller, booking.EditBookingParams{
		BookingID:      bookingID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		ParticipantIDs: req.ParticipantIDs,
		Status:         status,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking update failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(updated)})
}

// Delete cancels a booking visible to the caller.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	if strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	caller, _ := CallerFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "caller_id", caller.ID, "booking_id", bookingID)

	deletedID, err := h.service.DeleteBooking(r.Context(), caller, bookingID)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking delete failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"deleted_booking_id": deletedID})
}

// Get returns one booking if the caller may see it.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	caller, _ := CallerFromContext(r.Context())

	b, err := h.service.GetBookingByID(r.Context(), caller, bookingID)
	if err != nil {
		h.log(r.Context(), "Get", "caller_id", caller.ID, "booking_id", bookingID).ErrorContext(r.Context(), "booking lookup failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(b)})
}

// List returns the bookings visible to the caller's role.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	caller, _ := CallerFromContext(r.Context())

	bookings, err := h.service.GetAllBookings(r.Context(), caller)
	if err != nil {
		h.log(r.Context(), "List", "caller_id", caller.ID).ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "List", "caller_id", caller.ID).With("result_count", len(bookings)).InfoContext(r.Context(), "bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(bookings)})
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type bookingDTO struct {
	ID             string   `json:"id"`
	RoomID         string   `json:"room_id"`
	HostID         string   `json:"host_id"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
	StartsAt       string   `json:"starts_at"`
	EndsAt         string   `json:"ends_at"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func toBookingDTO(b booking.Booking) bookingDTO {
	return bookingDTO{
		ID:             b.ID,
		RoomID:         b.RoomID,
		HostID:         b.HostID,
		ParticipantIDs: b.ParticipantIDs,
		StartsAt:       b.StartsAt.UTC().Format(time.RFC3339Nano),
		EndsAt:         b.EndsAt.UTC().Format(time.RFC3339Nano),
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBookingDTOs(bookings []booking.Booking) []bookingDTO {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	return out
}
