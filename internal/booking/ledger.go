package booking

// bookingLedger stores bookings keyed by id with a secondary index by room,
// so per-room scans stay O(bookings on that room). The owning Service
// serializes access.
type bookingLedger struct {
	bookings map[string]Booking
	byRoom   map[string]map[string]struct{}
}

func newBookingLedger() *bookingLedger {
	return &bookingLedger{
		bookings: make(map[string]Booking),
		byRoom:   make(map[string]map[string]struct{}),
	}
}

func (l *bookingLedger) insert(b Booking) {
	l.bookings[b.ID] = b
	ids, ok := l.byRoom[b.RoomID]
	if !ok {
		ids = make(map[string]struct{})
		l.byRoom[b.RoomID] = ids
	}
	ids[b.ID] = struct{}{}
}

func (l *bookingLedger) update(b Booking) {
	existing, ok := l.bookings[b.ID]
	if ok && existing.RoomID != b.RoomID {
		delete(l.byRoom[existing.RoomID], b.ID)
		ids, ok := l.byRoom[b.RoomID]
		if !ok {
			ids = make(map[string]struct{})
			l.byRoom[b.RoomID] = ids
		}
		ids[b.ID] = struct{}{}
	}
	l.bookings[b.ID] = b
}

func (l *bookingLedger) remove(id string) (Booking, bool) {
	b, ok := l.bookings[id]
	if !ok {
		return Booking{}, false
	}
	delete(l.bookings, id)
	if ids, ok := l.byRoom[b.RoomID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(l.byRoom, b.RoomID)
		}
	}
	return b, true
}

func (l *bookingLedger) list() []Booking {
	out := make([]Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		out = append(out, b)
	}
	return out
}

func (l *bookingLedger) forRoom(roomID string) []Booking {
	ids := l.byRoom[roomID]
	out := make([]Booking, 0, len(ids))
	for id := range ids {
		out = append(out, l.bookings[id])
	}
	return out
}
