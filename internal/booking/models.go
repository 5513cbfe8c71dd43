package booking

import "time"

// Role classifies the party invoking an engine operation.
type Role string

const (
	// RoleOwner identifies a resource owner who publishes rooms.
	RoleOwner Role = "OWNER"
	// RoleOrganization identifies an organization whose members host bookings.
	RoleOrganization Role = "ORGANIZATION"
	// RoleMember identifies an individual who hosts or joins bookings.
	RoleMember Role = "MEMBER"
)

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOrganization, RoleMember:
		return true
	}
	return false
}

// Caller is the opaque identity an operation acts on behalf of. The engine
// never stores it; it only scopes visibility and authorization.
type Caller struct {
	ID   string
	Role Role
}

// BookingStatus tracks the lifecycle of a booking.
type BookingStatus string

const (
	StatusScheduled BookingStatus = "SCHEDULED"
	StatusActive    BookingStatus = "ACTIVE"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusMissed    BookingStatus = "MISSED"
)

// Valid reports whether the status is a known lifecycle value.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// Room is a reservable space published by an owner.
type Room struct {
	ID                 string
	OwnerID            string
	Name               string
	MaxCapacity        int
	Location           string
	AvailableFrom      time.Time
	MinIntervalMinutes int
	Price              float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Booking is a reserved half-open interval [StartsAt, EndsAt) on a room.
type Booking struct {
	ID             string
	RoomID         string
	HostID         string
	ParticipantIDs []string
	StartsAt       time.Time
	EndsAt         time.Time
	Status         BookingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AddRoomParams captures caller provided fields for room creation.
type AddRoomParams struct {
	OwnerID            string
	Name               string
	MaxCapacity        int
	Location           string
	AvailableFrom      *time.Time
	MinIntervalMinutes int
	Price              float64
}

// EditRoomParams captures a partial room update; nil fields are left as-is.
type EditRoomParams struct {
	RoomID             string
	Name               *string
	MaxCapacity        *int
	Location           *string
	AvailableFrom      *time.Time
	MinIntervalMinutes *int
	Price              *float64
}

// AddBookingParams captures caller provided fields for booking creation.
type AddBookingParams struct {
	RoomID         string
	HostID         string
	ParticipantIDs []string
	StartsAt       time.Time
	EndsAt         time.Time
}

// EditBookingParams captures a partial booking update; nil fields are left
// as-is. Participants are replaced wholesale when non-nil.
type EditBookingParams struct {
	BookingID      string
	StartsAt       *time.Time
	EndsAt         *time.Time
	ParticipantIDs []string
	Status         *BookingStatus
}
