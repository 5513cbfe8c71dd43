package booking

import (
	"context"
	"testing"
	"time"
)

// seedVisibilityWorld builds two owners, one organization, and three member
// hosts with bookings spread over both owners' rooms.
func seedVisibilityWorld(t *testing.T) (*Service, map[string]string) {
	t.Helper()

	orgs := &organizationsStub{members: map[string][]string{
		"org-1": {"member-1", "member-2"},
		"org-2": {},
	}}
	svc := newTestService(t, nil, orgs)

	roomA := mustAddRoom(t, svc, "owner-1", 60)
	roomB := mustAddRoom(t, svc, "owner-2", 60)

	ids := map[string]string{"roomA": roomA, "roomB": roomB}
	add := func(key, hostID, roomID string, offset time.Duration) {
		id, err := svc.AddBooking(context.Background(), Caller{ID: hostID, Role: RoleMember}, AddBookingParams{
			RoomID:   roomID,
			StartsAt: testBase.Add(offset),
			EndsAt:   testBase.Add(offset + time.Hour),
		})
		if err != nil {
			t.Fatalf("seed booking %s: %v", key, err)
		}
		ids[key] = id
	}

	add("m1-onA", "member-1", roomA, time.Hour)
	add("m2-onA", "member-2", roomA, 3*time.Hour)
	add("m3-onB", "member-3", roomB, time.Hour)

	return svc, ids
}

func TestOwnerSeesOnlyOwnRoomBookings(t *testing.T) {
	svc, ids := seedVisibilityWorld(t)

	got, err := svc.GetAllBookings(context.Background(), Caller{ID: "owner-1", Role: RoleOwner})
	if err != nil {
		t.Fatalf("GetAllBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("owner-1 should see 2 bookings, got %d", len(got))
	}
	for _, b := range got {
		if b.RoomID != ids["roomA"] {
			t.Fatalf("owner-1 must only see bookings on its own room, saw %q", b.RoomID)
		}
	}

	if _, err := svc.GetBookingByID(context.Background(), Caller{ID: "owner-1", Role: RoleOwner}, ids["m3-onB"]); !IsKind(err, KindNotFound) {
		t.Fatalf("foreign room booking must read as not_found, got %v", err)
	}
}

func TestOrganizationSeesMemberHostedBookings(t *testing.T) {
	svc, ids := seedVisibilityWorld(t)

	got, err := svc.GetAllBookings(context.Background(), Caller{ID: "org-1", Role: RoleOrganization})
	if err != nil {
		t.Fatalf("GetAllBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("org-1 should see 2 member hosted bookings, got %d", len(got))
	}
	for _, b := range got {
		if b.ID == ids["m3-onB"] {
			t.Fatal("org-1 must not see bookings hosted outside its membership")
		}
	}
}

func TestOrganizationWithoutMembersGetsNotFound(t *testing.T) {
	svc, _ := seedVisibilityWorld(t)

	_, err := svc.GetAllBookings(context.Background(), Caller{ID: "org-2", Role: RoleOrganization})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected not_found for memberless organization, got %v", err)
	}
}

func TestMemberSeesOnlyHostedBookings(t *testing.T) {
	svc, ids := seedVisibilityWorld(t)

	got, err := svc.GetAllBookings(context.Background(), Caller{ID: "member-1", Role: RoleMember})
	if err != nil {
		t.Fatalf("GetAllBookings: %v", err)
	}
	if len(got) != 1 || got[0].ID != ids["m1-onA"] {
		t.Fatalf("member-1 should see exactly its own booking, got %+v", got)
	}
}

func TestUnknownRoleIsForbidden(t *testing.T) {
	svc, _ := seedVisibilityWorld(t)

	_, err := svc.GetAllBookings(context.Background(), Caller{ID: "anon", Role: Role("GUEST")})
	if !IsKind(err, KindForbidden) {
		t.Fatalf("expected forbidden for unknown role, got %v", err)
	}
}

func TestEmptyVisibleSetReadsAsNotFound(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.GetAllBookings(context.Background(), Caller{ID: "owner-1", Role: RoleOwner})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("owner with no rooms should get not_found, got %v", err)
	}

	mustAddRoom(t, svc, "owner-1", 60)
	_, err = svc.GetAllBookings(context.Background(), Caller{ID: "owner-1", Role: RoleOwner})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("owner with rooms but no bookings should get not_found, got %v", err)
	}
}

func TestVisibleBookingsAreOrderedByStart(t *testing.T) {
	svc := newTestService(t, nil, nil)
	roomID := mustAddRoom(t, svc, "owner-1", 60)
	host := Caller{ID: "member-1", Role: RoleMember}

	offsets := []time.Duration{5 * time.Hour, time.Hour, 3 * time.Hour}
	for _, offset := range offsets {
		if _, err := svc.AddBooking(context.Background(), host, AddBookingParams{
			RoomID:   roomID,
			StartsAt: testBase.Add(offset),
			EndsAt:   testBase.Add(offset + time.Hour),
		}); err != nil {
			t.Fatalf("AddBooking at %v: %v", offset, err)
		}
	}

	got, err := svc.GetAllBookings(context.Background(), host)
	if err != nil {
		t.Fatalf("GetAllBookings: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartsAt.Before(got[i-1].StartsAt) {
			t.Fatalf("bookings out of order: %v before %v", got[i].StartsAt, got[i-1].StartsAt)
		}
	}
}
