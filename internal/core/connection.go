package core

// Connection is one live client link as seen by the core layer.
// UserID is the external identifier the client supplies on host/join; it is
// not verified. room points at the single room the connection belongs to,
// nil otherwise. Both fields are only touched from the connection's own
// handler goroutine, so they need no lock of their own.
type Connection struct {
	ID     string
	UserID string
	Events chan *Event

	room *Room
}

// NewConnection constructs a connection with an initialized event channel.
func NewConnection(id string) *Connection {
	return &Connection{
		ID:     id,
		Events: make(chan *Event, 16),
	}
}

func (c *Connection) send(event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
