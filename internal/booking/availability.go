package booking

import (
	"time"

	"github.com/example/room-lending/internal/timegrid"
)

// availabilityIndex materializes the per-room slot grid with booked flags.
//
// A slot is booked when its interval overlaps any booking on the room. Flags
// are always recomputed from the ledger rather than patched in place, so the
// grid can never drift from booking truth. Lifetime of a grid matches its
// room.
type availabilityIndex struct {
	grids map[string][]timegrid.Slot
}

func newAvailabilityIndex() *availabilityIndex {
	return &availabilityIndex{grids: make(map[string][]timegrid.Slot)}
}

// rebuild regenerates the room's grid from scratch and re-marks it against
// the supplied bookings. Used on room creation and availability edits.
func (a *availabilityIndex) rebuild(room Room, horizon time.Duration, bookings []Booking) {
	step := time.Duration(room.MinIntervalMinutes) * time.Minute
	grid := timegrid.Generate(room.ID, room.AvailableFrom, step, horizon)
	a.grids[room.ID] = grid
	a.refresh(room.ID, bookings)
}

// refresh recomputes booked flags for the room's existing grid.
func (a *availabilityIndex) refresh(roomID string, bookings []Booking) {
	grid, ok := a.grids[roomID]
	if !ok {
		return
	}
	for i := range grid {
		grid[i].Booked = false
		slot := timegrid.Interval{StartsAt: grid[i].StartsAt, EndsAt: grid[i].EndsAt}
		for _, b := range bookings {
			if timegrid.Overlaps(slot, timegrid.Interval{StartsAt: b.StartsAt, EndsAt: b.EndsAt}) {
				grid[i].Booked = true
				break
			}
		}
	}
}

// remove discards the room's grid entirely.
func (a *availabilityIndex) remove(roomID string) {
	delete(a.grids, roomID)
}

// slotsFor returns a copy of the room's grid in chronological order.
func (a *availabilityIndex) slotsFor(roomID string) []timegrid.Slot {
	grid, ok := a.grids[roomID]
	if !ok {
		return nil
	}
	out := make([]timegrid.Slot, len(grid))
	copy(out, grid)
	return out
}
