package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/room-lending/internal/booking"
)

func TestEngineFactoryDefaults(t *testing.T) {
	factory := NewEngineFactory()
	if factory.Clock == nil || factory.IDGenerator == nil {
		t.Fatal("expected clock and id generator defaults")
	}

	engine := factory.NewEngine(EngineDeps{
		Owners: &StubOwners{Known: map[string]bool{"owner-1": true}},
	})
	if engine == nil {
		t.Fatal("expected engine")
	}
}

func TestEngineFactoryUsesInjectedClockAndIDs(t *testing.T) {
	start := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	gen := NewIDGenerator("room")

	factory := NewEngineFactory(WithClock(clock), WithIDGenerator(gen))
	engine := factory.NewEngine(EngineDeps{
		Owners: &StubOwners{Known: map[string]bool{"owner-1": true}},
	})

	roomID, err := engine.AddRoom(context.Background(), booking.AddRoomParams{
		OwnerID:            "owner-1",
		Name:               "Workshop",
		MaxCapacity:        4,
		MinIntervalMinutes: 60,
	})
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if roomID != "room-1" {
		t.Fatalf("expected deterministic id, got %q", roomID)
	}

	room, err := engine.GetRoomByID(context.Background(), roomID)
	if err != nil {
		t.Fatalf("GetRoomByID: %v", err)
	}
	if !room.CreatedAt.Equal(start) {
		t.Fatalf("expected room created at clock time %v, got %v", start, room.CreatedAt)
	}
}

func TestStubOrganizationsReturnsCannedMembers(t *testing.T) {
	stub := &StubOrganizations{Members: map[string][]string{"org-1": {"m-1", "m-2"}}}
	ids, err := stub.MemberIDsForOrganization(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 members, got %d", len(ids))
	}
}
