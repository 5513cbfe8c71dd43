package timegrid

import "time"

// Slot is one fixed-width bookable unit on a room's grid.
type Slot struct {
	RoomID   string
	StartsAt time.Time
	EndsAt   time.Time
	Booked   bool
}

// Interval is a half-open time range [StartsAt, EndsAt).
type Interval struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// Overlaps reports whether two half-open intervals share any instant,
// including when one strictly contains the other. Touching endpoints do not
// overlap.
func Overlaps(a, b Interval) bool {
	return a.StartsAt.Before(b.EndsAt) && b.StartsAt.Before(a.EndsAt)
}

// Generate produces the ordered slot sequence for a room starting at
// availableFrom, stepping by step, over the given horizon.
//
// The iteration count is floor(horizon/step)+1, so the final slot may end
// past the horizon boundary. Callers depend on the resulting slot count
// (73 for a 60 minute step over 3 days).
func Generate(roomID string, availableFrom time.Time, step time.Duration, horizon time.Duration) []Slot {
	if step <= 0 || horizon <= 0 {
		return nil
	}

	count := int(horizon/step) + 1
	slots := make([]Slot, 0, count)

	start := availableFrom
	for i := 0; i < count; i++ {
		end := start.Add(step)
		slots = append(slots, Slot{RoomID: roomID, StartsAt: start, EndsAt: end})
		start = end
	}

	return slots
}
