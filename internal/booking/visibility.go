package booking

import (
	"context"
	"slices"
	"sort"
)

// visibleBookings resolves the set of bookings the caller may see, dispatched
// exhaustively on role:
//
//	OWNER        — bookings on rooms the caller owns
//	ORGANIZATION — bookings hosted by the caller's members
//	MEMBER       — bookings hosted by the caller
//
// Each branch reports NotFound when the candidate set is empty; that is a
// deliberate "nothing to show" signal, distinct from a genuine lookup
// failure. Unknown roles are rejected with Forbidden.
// Results are ordered by start time, then id, so callers never depend on
// map iteration order.
func (s *Service) visibleBookings(ctx context.Context, caller Caller) ([]Booking, error) {
	var visible []Booking

	switch caller.Role {
	case RoleOwner:
		roomIDs := s.rooms.ownedBy(caller.ID)
		if len(roomIDs) == 0 {
			return nil, NotFoundError("no rooms found for current owner")
		}
		for _, roomID := range roomIDs {
			visible = append(visible, s.ledger.forRoom(roomID)...)
		}
		if len(visible) == 0 {
			return nil, NotFoundError("no bookings found in any rooms for current owner")
		}

	case RoleOrganization:
		memberIDs, err := s.organizations.MemberIDsForOrganization(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		if len(memberIDs) == 0 {
			return nil, NotFoundError("no member records found for current organization")
		}
		for _, b := range s.ledger.list() {
			if slices.Contains(memberIDs, b.HostID) {
				visible = append(visible, b)
			}
		}
		if len(visible) == 0 {
			return nil, NotFoundError("no bookings found in any rooms for current organization")
		}

	case RoleMember:
		for _, b := range s.ledger.list() {
			if b.HostID == caller.ID {
				visible = append(visible, b)
			}
		}
		if len(visible) == 0 {
			return nil, NotFoundError("no bookings found for current member")
		}

	default:
		return nil, ForbiddenError("please log in to view room bookings and available slots")
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].StartsAt.Equal(visible[j].StartsAt) {
			return visible[i].ID < visible[j].ID
		}
		return visible[i].StartsAt.Before(visible[j].StartsAt)
	})

	return visible, nil
}

// visibleBooking locates a single booking within the caller's visible set.
// Absence from that set reads as NotFound even when the booking exists, so a
// caller cannot discover bookings outside their scope by guessing ids.
func (s *Service) visibleBooking(ctx context.Context, caller Caller, bookingID string) (Booking, error) {
	visible, err := s.visibleBookings(ctx, caller)
	if err != nil {
		return Booking{}, err
	}
	for _, b := range visible {
		if b.ID == bookingID {
			return b, nil
		}
	}
	return Booking{}, NotFoundError("booking does not exist with provided id")
}
