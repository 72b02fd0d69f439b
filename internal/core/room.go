package core

import "sync"

// Room groups connections sharing one visible active-interval state.
//
// mu serializes every mutation of the member set and the active interval.
// Interval operations hold it across the persistence call, so a durable
// write and the matching state change are observed together by later
// events on the same room. Distinct rooms never share a lock.
type Room struct {
	ID string

	mu      sync.Mutex
	members map[*Connection]struct{}
	active  *ActiveInterval
	dead    bool
}

// NewRoom constructs a room with no members.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make(map[*Connection]struct{}),
	}
}

// addMember inserts a connection. Returns true if newly added.
// Caller holds mu.
func (r *Room) addMember(c *Connection) bool {
	if _, exists := r.members[c]; exists {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// removeMember deletes a connection. Returns true if removed.
// Caller holds mu.
func (r *Room) removeMember(c *Connection) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// broadcast sends an event to every member except the excluded connection.
// Caller holds mu.
func (r *Room) broadcast(event *Event, except *Connection) {
	for member := range r.members {
		if member == except {
			continue
		}
		member.send(event)
	}
}

// empty reports whether no members remain. Caller holds mu.
func (r *Room) empty() bool {
	return len(r.members) == 0
}
