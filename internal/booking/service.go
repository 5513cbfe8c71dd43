package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/room-lending/internal/timegrid"
)

// DefaultHorizonDays is the forward window the slot grid covers.
const DefaultHorizonDays = 3

// MinBookingIntervalMinutes is the smallest grid step a room may declare.
const MinBookingIntervalMinutes = 15

// OwnerDirectory is the collaborator consulted on room creation to confirm
// the referenced owner identity exists.
type OwnerDirectory interface {
	OwnerExists(ctx context.Context, id string) (bool, error)
}

// OrganizationDirectory resolves organizational membership for the
// ORGANIZATION visibility scope.
type OrganizationDirectory interface {
	MemberIDsForOrganization(ctx context.Context, orgID string) ([]string, error)
}

// Service is the availability/booking engine. It owns room, booking, and
// slot state and exposes the public operation set consumed by the boundary
// layer.
//
// A single RWMutex serializes all mutating operations, so every
// check-then-insert sequence and every cascade is one atomic critical
// section; readers take the read lock and never observe a partially applied
// cascade.
type Service struct {
	mu sync.RWMutex

	rooms  *roomRegistry
	ledger *bookingLedger
	slots  *availabilityIndex

	owners        OwnerDirectory
	organizations OrganizationDirectory

	idGenerator func() string
	now         func() time.Time
	horizon     time.Duration
	logger      *slog.Logger
}

// NewService constructs the engine with the provided collaborators.
func NewService(owners OwnerDirectory, organizations OrganizationDirectory, idGenerator func() string, now func() time.Time) *Service {
	return NewServiceWithOptions(owners, organizations, idGenerator, now, 0, nil)
}

// NewServiceWithOptions constructs the engine with an explicit scheduling
// horizon and logger. A non-positive horizon falls back to the default.
func NewServiceWithOptions(owners OwnerDirectory, organizations OrganizationDirectory, idGenerator func() string, now func() time.Time, horizon time.Duration, logger *slog.Logger) *Service {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if horizon <= 0 {
		horizon = DefaultHorizonDays * 24 * time.Hour
	}
	return &Service{
		rooms:         newRoomRegistry(),
		ledger:        newBookingLedger(),
		slots:         newAvailabilityIndex(),
		owners:        owners,
		organizations: organizations,
		idGenerator:   idGenerator,
		now:           now,
		horizon:       horizon,
		logger:        defaultLogger(logger),
	}
}

func (s *Service) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, operation, attrs...)
}

// AddRoom publishes a new room after confirming the owner exists and the
// availability start is not in the past. The slot grid is generated
// immediately.
func (s *Service) AddRoom(ctx context.Context, params AddRoomParams) (roomID string, err error) {
	if s == nil {
		return "", fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "AddRoom", "owner_id", params.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", roomID).InfoContext(ctx, "room added")
	}()

	if err = s.validateRoomFields(params.Name, params.MaxCapacity, params.MinIntervalMinutes, params.Price); err != nil {
		return "", err
	}

	if s.owners != nil {
		exists, lookupErr := s.owners.OwnerExists(ctx, params.OwnerID)
		if lookupErr != nil {
			return "", lookupErr
		}
		if !exists {
			return "", NotFoundError("owner does not exist with provided id")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	availableFrom := now
	if params.AvailableFrom != nil {
		if params.AvailableFrom.Before(now) {
			return "", BadRequestError("available from must not be before the current date")
		}
		availableFrom = *params.AvailableFrom
	}

	room := Room{
		ID:                 s.idGenerator(),
		OwnerID:            params.OwnerID,
		Name:               strings.TrimSpace(params.Name),
		MaxCapacity:        params.MaxCapacity,
		Location:           strings.TrimSpace(params.Location),
		AvailableFrom:      availableFrom,
		MinIntervalMinutes: params.MinIntervalMinutes,
		Price:              params.Price,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	s.rooms.insert(room)
	s.slots.rebuild(room, s.horizon, nil)

	return room.ID, nil
}

// EditRoom applies a partial update to a room the caller owns. When the
// availability start or grid step changes, the slot grid is rebuilt and
// scheduled bookings that now start before the new availability start are
// cancelled, as one atomic cascade.
func (s *Service) EditRoom(ctx context.Context, caller Caller, params EditRoomParams) (room Room, err error) {
	if s == nil {
		return Room{}, fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "EditRoom", "caller_id", caller.ID, "room_id", params.RoomID)
	var cancelled int
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to edit room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("cancelled_bookings", cancelled).InfoContext(ctx, "room edited")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rooms.get(params.RoomID)
	if !ok {
		return Room{}, NotFoundError("room does not exist with provided id")
	}

	// Ownership is required on every room mutation, not just delete.
	if caller.Role != RoleOwner || caller.ID != existing.OwnerID {
		return Room{}, ForbiddenError("cannot perform this operation, you are not the owner of this room")
	}

	now := s.now()
	updated := existing
	if params.Name != nil {
		updated.Name = strings.TrimSpace(*params.Name)
	}
	if params.MaxCapacity != nil {
		updated.MaxCapacity = *params.MaxCapacity
	}
	if params.Location != nil {
		updated.Location = strings.TrimSpace(*params.Location)
	}
	if params.Price != nil {
		updated.Price = *params.Price
	}
	if params.MinIntervalMinutes != nil {
		updated.MinIntervalMinutes = *params.MinIntervalMinutes
	}
	if params.AvailableFrom != nil {
		if params.AvailableFrom.Before(now) {
			return Room{}, BadRequestError("available from must not be before the current date")
		}
		updated.AvailableFrom = *params.AvailableFrom
	}

	if err = s.validateRoomFields(updated.Name, updated.MaxCapacity, updated.MinIntervalMinutes, updated.Price); err != nil {
		return Room{}, err
	}
	updated.UpdatedAt = now

	gridChanged := !updated.AvailableFrom.Equal(existing.AvailableFrom) ||
		updated.MinIntervalMinutes != existing.MinIntervalMinutes

	s.rooms.update(updated)

	if gridChanged {
		// Two-phase cascade: collect the doomed bookings first, then apply
		// the batch, then rebuild the grid against the survivors.
		var doomed []string
		for _, b := range s.ledger.forRoom(updated.ID) {
			if b.Status == StatusScheduled && b.StartsAt.Before(updated.AvailableFrom) {
				doomed = append(doomed, b.ID)
			}
		}
		for _, id := range doomed {
			s.ledger.remove(id)
		}
		cancelled = len(doomed)
		s.slots.rebuild(updated, s.horizon, s.ledger.forRoom(updated.ID))
	}

	return updated, nil
}

// DeleteRoom removes a room owned by the caller together with all of its
// bookings and its slot grid.
func (s *Service) DeleteRoom(ctx context.Context, caller Caller, ownerID, roomID string) (deletedID string, err error) {
	if s == nil {
		return "", fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "caller_id", caller.ID, "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room deleted")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.get(roomID)
	if !ok {
		return "", NotFoundError("room does not exist with provided id")
	}
	if room.OwnerID != ownerID || caller.Role != RoleOwner || caller.ID != room.OwnerID {
		return "", ForbiddenError("cannot perform this operation, you are not the owner of this room")
	}

	removed, _ := s.rooms.remove(roomID)
	for _, b := range s.ledger.forRoom(removed.ID) {
		s.ledger.remove(b.ID)
	}
	s.slots.remove(removed.ID)

	return removed.ID, nil
}

// GetRoomByID returns a single room.
func (s *Service) GetRoomByID(ctx context.Context, id string) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms.get(id)
	if !ok {
		return Room{}, NotFoundError("room does not exist with provided id")
	}
	return room, nil
}

// GetAllRooms lists every published room ordered by name, then id.
func (s *Service) GetAllRooms(ctx context.Context) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := s.rooms.list()
	sort.Slice(rooms, func(i, j int) bool {
		if strings.EqualFold(rooms[i].Name, rooms[j].Name) {
			return rooms[i].ID < rooms[j].ID
		}
		return strings.ToLower(rooms[i].Name) < strings.ToLower(rooms[j].Name)
	})
	return rooms, nil
}

// GetAvailableSlotsByRoomID returns the room's slot grid with booked flags.
func (s *Service) GetAvailableSlotsByRoomID(ctx context.Context, roomID string) ([]timegrid.Slot, error) {
	if s == nil {
		return nil, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.rooms.get(roomID); !ok {
		return nil, NotFoundError("room does not exist with provided id")
	}
	return s.slots.slotsFor(roomID), nil
}

// AddBooking reserves an interval on a room for the caller. The temporal,
// horizon, capacity, and overlap checks run inside the engine lock, so the
// check-then-insert sequence is atomic.
func (s *Service) AddBooking(ctx context.Context, caller Caller, params AddBookingParams) (bookingID string, err error) {
	if s == nil {
		return "", fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "AddBooking", "caller_id", caller.ID, "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", bookingID).InfoContext(ctx, "booking added")
	}()

	if !caller.Role.Valid() {
		return "", ForbiddenError("please log in to book rooms")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.get(params.RoomID)
	if !ok {
		return "", NotFoundError("room does not exist with provided id")
	}

	hostID := params.HostID
	if hostID == "" {
		hostID = caller.ID
	}

	candidate := timegrid.Interval{StartsAt: params.StartsAt, EndsAt: params.EndsAt}
	if err = s.validateInterval(candidate, room); err != nil {
		return "", err
	}
	if err = s.checkRoomConflict(room.ID, candidate, ""); err != nil {
		return "", err
	}
	participants := uniqueStrings(params.ParticipantIDs)
	if len(participants) > room.MaxCapacity {
		return "", BadRequestError("maximum %d people allowed, please reduce participants", room.MaxCapacity)
	}

	now := s.now()
	b := Booking{
		ID:             s.idGenerator(),
		RoomID:         room.ID,
		HostID:         hostID,
		ParticipantIDs: participants,
		StartsAt:       params.StartsAt,
		EndsAt:         params.EndsAt,
		Status:         StatusScheduled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.ledger.insert(b)
	s.slots.refresh(room.ID, s.ledger.forRoom(room.ID))

	return b.ID, nil
}

// EditBooking applies a partial update to a booking within the caller's
// visible set. Interval changes re-run the full admission checks against the
// room, excluding the booking itself, and slot state follows atomically.
func (s *Service) EditBooking(ctx context.Context, caller Caller, params EditBookingParams) (b Booking, err error) {
	if s == nil {
		return Booking{}, fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "EditBooking", "caller_id", caller.ID, "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to edit booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking edited")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.visibleBooking(ctx, caller, params.BookingID)
	if err != nil {
		return Booking{}, err
	}

	room, ok := s.rooms.get(existing.RoomID)
	if !ok {
		return Booking{}, NotFoundError("room does not exist with provided id")
	}

	updated := existing
	if params.StartsAt != nil {
		updated.StartsAt = *params.StartsAt
	}
	if params.EndsAt != nil {
		updated.EndsAt = *params.EndsAt
	}
	if params.ParticipantIDs != nil {
		updated.ParticipantIDs = uniqueStrings(params.ParticipantIDs)
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return Booking{}, BadRequestError("unknown booking status %q", string(*params.Status))
		}
		updated.Status = *params.Status
	}

	candidate := timegrid.Interval{StartsAt: updated.StartsAt, EndsAt: updated.EndsAt}
	if err = s.validateInterval(candidate, room); err != nil {
		return Booking{}, err
	}
	if err = s.checkRoomConflict(room.ID, candidate, updated.ID); err != nil {
		return Booking{}, err
	}
	if len(updated.ParticipantIDs) > room.MaxCapacity {
		return Booking{}, BadRequestError("maximum %d people allowed, please reduce participants", room.MaxCapacity)
	}

	updated.UpdatedAt = s.now()
	s.ledger.update(updated)
	s.slots.refresh(room.ID, s.ledger.forRoom(room.ID))

	return updated, nil
}

// DeleteBooking removes a booking within the caller's visible set and frees
// its slot state.
func (s *Service) DeleteBooking(ctx context.Context, caller Caller, bookingID string) (deletedID string, err error) {
	if s == nil {
		return "", fmt.Errorf("booking Service is nil")
	}

	logger := s.loggerWith(ctx, "DeleteBooking", "caller_id", caller.ID, "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking deleted")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.visibleBooking(ctx, caller, bookingID)
	if err != nil {
		return "", err
	}

	s.ledger.remove(existing.ID)
	s.slots.refresh(existing.RoomID, s.ledger.forRoom(existing.RoomID))

	return existing.ID, nil
}

// GetAllBookings lists the bookings visible to the caller under role scoping.
func (s *Service) GetAllBookings(ctx context.Context, caller Caller) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleBookings(ctx, caller)
}

// GetBookingByID returns a booking from the caller's visible set.
func (s *Service) GetBookingByID(ctx context.Context, caller Caller, bookingID string) (Booking, error) {
	if s == nil {
		return Booking{}, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleBooking(ctx, caller, bookingID)
}

// GetBookingsByRoomID returns the caller's visible bookings on one room.
func (s *Service) GetBookingsByRoomID(ctx context.Context, caller Caller, roomID string) ([]Booking, error) {
	if s == nil {
		return nil, fmt.Errorf("booking Service is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.rooms.get(roomID); !ok {
		return nil, NotFoundError("room does not exist with provided id")
	}

	visible, err := s.visibleBookings(ctx, caller)
	if err != nil {
		return nil, err
	}

	out := make([]Booking, 0, len(visible))
	for _, b := range visible {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

// checkRoomConflict rejects the candidate interval when it overlaps any
// booking on the room other than excludeID.
func (s *Service) checkRoomConflict(roomID string, candidate timegrid.Interval, excludeID string) error {
	for _, b := range s.ledger.forRoom(roomID) {
		if b.ID == excludeID {
			continue
		}
		if timegrid.Overlaps(candidate, timegrid.Interval{StartsAt: b.StartsAt, EndsAt: b.EndsAt}) {
			return ConflictError("room already booked, please select a different date time combination")
		}
	}
	return nil
}

// validateInterval admits a candidate interval when it is non-empty and its
// start falls inside the room's bookable window [AvailableFrom,
// AvailableFrom+horizon).
func (s *Service) validateInterval(candidate timegrid.Interval, room Room) error {
	if !candidate.EndsAt.After(candidate.StartsAt) {
		return BadRequestError("end date cannot be on or before start date")
	}
	if candidate.StartsAt.Before(room.AvailableFrom) || !candidate.StartsAt.Before(room.AvailableFrom.Add(s.horizon)) {
		return BadRequestError("room not available on specified date")
	}
	return nil
}

func (s *Service) validateRoomFields(name string, maxCapacity, minIntervalMinutes int, price float64) error {
	if strings.TrimSpace(name) == "" {
		return BadRequestError("room name is required")
	}
	if maxCapacity < 1 {
		return BadRequestError("max capacity must be at least 1")
	}
	if minIntervalMinutes < MinBookingIntervalMinutes {
		return BadRequestError("minimum booking interval must be at least %d minutes", MinBookingIntervalMinutes)
	}
	if price < 0 {
		return BadRequestError("price must not be negative")
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
