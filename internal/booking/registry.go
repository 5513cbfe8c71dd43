package booking

// roomRegistry is the id-keyed room store. It carries no lock of its own;
// the owning Service serializes access.
type roomRegistry struct {
	rooms map[string]Room
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{rooms: make(map[string]Room)}
}

func (r *roomRegistry) insert(room Room) {
	r.rooms[room.ID] = room
}

func (r *roomRegistry) get(id string) (Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

func (r *roomRegistry) update(room Room) {
	r.rooms[room.ID] = room
}

// remove deletes the room and returns the removed record for cascade use.
func (r *roomRegistry) remove(id string) (Room, bool) {
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, false
	}
	delete(r.rooms, id)
	return room, true
}

func (r *roomRegistry) list() []Room {
	out := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}

// ownedBy returns the ids of rooms belonging to the given owner.
func (r *roomRegistry) ownedBy(ownerID string) []string {
	ids := make([]string, 0)
	for id, room := range r.rooms {
		if room.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids
}
