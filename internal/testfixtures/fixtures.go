package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-lending/internal/booking"
)

var (
	roomCounter    uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures the generated room fixture.
type RoomOption func(*booking.Room)

// NewRoomFixture returns a deterministic room with optional overrides. Rooms
// open at ReferenceTime with a 60 minute grid step unless overridden.
func NewRoomFixture(opts ...RoomOption) booking.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := booking.Room{
		ID:                 id,
		OwnerID:            fmt.Sprintf("owner-%03d", idx),
		Name:               fmt.Sprintf("Room %03d", idx),
		MaxCapacity:        8,
		Location:           fmt.Sprintf("Floor %d", idx%5+1),
		AvailableFrom:      referenceTime,
		MinIntervalMinutes: 60,
		Price:              100,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *booking.Room) {
		r.ID = id
	}
}

// WithRoomOwner overrides the owning identity.
func WithRoomOwner(ownerID string) RoomOption {
	return func(r *booking.Room) {
		r.OwnerID = ownerID
	}
}

// WithRoomCapacity overrides the participant ceiling.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *booking.Room) {
		r.MaxCapacity = capacity
	}
}

// WithRoomAvailableFrom overrides the availability start.
func WithRoomAvailableFrom(t time.Time) RoomOption {
	return func(r *booking.Room) {
		r.AvailableFrom = t
	}
}

// WithRoomInterval overrides the grid step in minutes.
func WithRoomInterval(minutes int) RoomOption {
	return func(r *booking.Room) {
		r.MinIntervalMinutes = minutes
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingOption configures the generated booking fixture.
type BookingOption func(*booking.Booking)

// NewBookingFixture returns a deterministic booking with optional overrides.
// Consecutive fixtures occupy back to back one hour intervals so they never
// collide unless a test arranges it.
func NewBookingFixture(opts ...BookingOption) booking.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	id := fmt.Sprintf("booking-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	b := booking.Booking{
		ID:        id,
		RoomID:    fmt.Sprintf("room-%03d", idx),
		HostID:    fmt.Sprintf("member-%03d", idx),
		StartsAt:  start,
		EndsAt:    start.Add(time.Hour),
		Status:    booking.StatusScheduled,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *booking.Booking) {
		b.ID = id
	}
}

// WithBookingRoom attaches the booking to the given room.
func WithBookingRoom(roomID string) BookingOption {
	return func(b *booking.Booking) {
		b.RoomID = roomID
	}
}

// WithBookingHost overrides the hosting identity.
func WithBookingHost(hostID string) BookingOption {
	return func(b *booking.Booking) {
		b.HostID = hostID
	}
}

// WithBookingInterval sets the occupied interval.
func WithBookingInterval(start, end time.Time) BookingOption {
	return func(b *booking.Booking) {
		b.StartsAt = start
		b.EndsAt = end
	}
}

// WithBookingParticipants sets the participant list.
func WithBookingParticipants(ids ...string) BookingOption {
	return func(b *booking.Booking) {
		b.ParticipantIDs = ids
	}
}

// WithBookingStatus overrides the lifecycle status.
func WithBookingStatus(status booking.BookingStatus) BookingOption {
	return func(b *booking.Booking) {
		b.Status = status
	}
}

// ---------------------------- Caller fixtures ----------------------------

// OwnerCaller returns a caller with the resource owner role.
func OwnerCaller(id string) booking.Caller {
	return booking.Caller{ID: id, Role: booking.RoleOwner}
}

// OrganizationCaller returns a caller with the organization role.
func OrganizationCaller(id string) booking.Caller {
	return booking.Caller{ID: id, Role: booking.RoleOrganization}
}

// MemberCaller returns a caller with the individual member role.
func MemberCaller(id string) booking.Caller {
	return booking.Caller{ID: id, Role: booking.RoleMember}
}
