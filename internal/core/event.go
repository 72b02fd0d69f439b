package core

// EventKind is a notification the core emits to connections.
type EventKind int

const (
	// EventHosted confirms room creation to the hosting connection.
	EventHosted EventKind = iota
	// EventMemberJoined notifies a room, newcomer included, about a join.
	EventMemberJoined
	// EventMemberLeft notifies remaining members about a departure.
	EventMemberLeft
	// EventIntervalStarted notifies members other than the starter.
	EventIntervalStarted
	// EventIntervalStopped notifies members other than the stopper.
	EventIntervalStopped
	// EventIntervalEdited notifies members other than the editor.
	EventIntervalEdited
	// EventError rejects a single inbound command; sent only to its origin.
	EventError
)

// Event is sent to connections to describe what happened in a room.
type Event struct {
	Kind     EventKind
	Room     string
	User     string
	Interval *IntervalSnapshot // non-nil for interval events
	Error    *CoreError        // non-nil for EventError
}
