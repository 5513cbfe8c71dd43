package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/room-lending/internal/booking"
	"github.com/example/room-lending/internal/timegrid"
)

type roomService interface {
	AddRoom(ctx context.Context, params booking.AddRoomParams) (string, error)
	EditRoom(ctx context.Context, caller booking.Caller, params booking.EditRoomParams) (booking.Room, error)
	DeleteRoom(ctx context.Context, caller booking.Caller, ownerID, roomID string) (string, error)
	GetRoomByID(ctx context.Context, id string) (booking.Room, error)
	GetAllRooms(ctx context.Context) ([]booking.Room, error)
	GetAvailableSlotsByRoomID(ctx context.Context, roomID string) ([]timegrid.Slot, error)
	GetBookingsByRoomID(ctx context.Context, caller booking.Caller, roomID string) ([]booking.Booking, error)
}

// RoomHandler serves the room surface of the engine.
type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

// NewRoomHandler constructs the room handler.
func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

type addRoomRequest struct {
	OwnerID            string     `json:"owner_id" validate:"required"`
	Name               string     `json:"name" validate:"required"`
	MaxCapacity        int        `json:"max_capacity" validate:"required,min=1"`
	Location           string     `json:"location"`
	AvailableFrom      *time.Time `json:"available_from,omitempty"`
	MinIntervalMinutes int        `json:"min_interval_minutes" validate:"required,min=15"`
	Price              float64    `json:"price" validate:"min=0"`
}

type editRoomRequest struct {
	Name               *string    `json:"name,omitempty"`
	MaxCapacity        *int       `json:"max_capacity,omitempty"`
	Location           *string    `json:"location,omitempty"`
	AvailableFrom      *time.Time `json:"available_from,omitempty"`
	MinIntervalMinutes *int       `json:"min_interval_minutes,omitempty"`
	Price              *float64   `json:"price,omitempty"`
}

// Create publishes a new room.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req addRoomRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room request", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "owner_id", req.OwnerID)

	roomID, err := h.service.AddRoom(r.Context(), booking.AddRoomParams{
		OwnerID:            req.OwnerID,
		Name:               req.Name,
		MaxCapacity:        req.MaxCapacity,
		Location:           req.Location,
		AvailableFrom:      req.AvailableFrom,
		MinIntervalMinutes: req.MinIntervalMinutes,
		Price:              req.Price,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", roomID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]string{"room_id": roomID})
}

// Update applies a partial edit to a room the caller owns.
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	if strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	caller, _ := CallerFromContext(r.Context())

	var req editRoomRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.log(r.Context(), "Update", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode room update", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "caller_id", caller.ID, "room_id", roomID)

	room, err := h.service.EditRoom(r.Context(), caller, booking.EditRoomParams{
		RoomID:             roomID,
		Name:               req.Name,
		MaxCapacity:        req.MaxCapacity,
		Location:           req.Location,
		AvailableFrom:      req.AvailableFrom,
		MinIntervalMinutes: req.MinIntervalMinutes,
		Price:              req.Price,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room update failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

// Delete removes a room the caller owns, cascading to bookings and slots.
// The owner id may travel in the query string; it must match the
// authenticated caller.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	if strings.TrimSpace(roomID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	caller, _ := CallerFromContext(r.Context())
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		ownerID = caller.ID
	}

	logger := h.log(r.Context(), "Delete", "caller_id", caller.ID, "room_id", roomID)

	deletedID, err := h.service.DeleteRoom(r.Context(), caller, ownerID, roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"deleted_room_id": deletedID})
}

// Get returns one room by id.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	room, err := h.service.GetRoomByID(r.Context(), roomID)
	if err != nil {
		h.log(r.Context(), "Get", "room_id", roomID).ErrorContext(r.Context(), "room lookup failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

// List returns every published room.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.service.GetAllRooms(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "List").With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

// Slots returns the room's slot grid with booked flags.
func (h *RoomHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	slots, err := h.service.GetAvailableSlotsByRoomID(r.Context(), roomID)
	if err != nil {
		h.log(r.Context(), "Slots", "room_id", roomID).ErrorContext(r.Context(), "slot lookup failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotsResponse{Slots: toSlotDTOs(slots)})
}

// Bookings returns the caller's visible bookings on one room.
func (h *RoomHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := chi.URLParam(r, "roomID")
	caller, _ := CallerFromContext(r.Context())

	bookings, err := h.service.GetBookingsByRoomID(r.Context(), caller, roomID)
	if err != nil {
		h.log(r.Context(), "Bookings", "caller_id", caller.ID, "room_id", roomID).ErrorContext(r.Context(), "room bookings lookup failed", "error", err, "error_kind", booking.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(bookings)})
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID                 string  `json:"id"`
	OwnerID            string  `json:"owner_id"`
	Name               string  `json:"name"`
	MaxCapacity        int     `json:"max_capacity"`
	Location           string  `json:"location,omitempty"`
	AvailableFrom      string  `json:"available_from"`
	MinIntervalMinutes int     `json:"min_interval_minutes"`
	Price              float64 `json:"price"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

func toRoomDTO(room booking.Room) roomDTO {
	return roomDTO{
		ID:                 room.ID,
		OwnerID:            room.OwnerID,
		Name:               room.Name,
		MaxCapacity:        room.MaxCapacity,
		Location:           room.Location,
		AvailableFrom:      room.AvailableFrom.UTC().Format(time.RFC3339Nano),
		MinIntervalMinutes: room.MinIntervalMinutes,
		Price:              room.Price,
		CreatedAt:          room.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          room.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toRoomDTOs(rooms []booking.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

type slotsResponse struct {
	Slots []slotDTO `json:"slots"`
}

type slotDTO struct {
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Booked   bool   `json:"booked"`
}

func toSlotDTOs(slots []timegrid.Slot) []slotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotDTO{
			StartsAt: slot.StartsAt.UTC().Format(time.RFC3339Nano),
			EndsAt:   slot.EndsAt.UTC().Format(time.RFC3339Nano),
			Booked:   slot.Booked,
		})
	}
	return out
}
