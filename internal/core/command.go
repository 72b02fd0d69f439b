package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandHost creates a fresh empty room and returns its id.
	CommandHost CommandKind = iota
	// CommandJoin adds the connection to a room's member set.
	CommandJoin
	// CommandLeave removes the connection from its room.
	CommandLeave
	// CommandStartInterval begins the room's single work interval.
	CommandStartInterval
	// CommandStopInterval ends the running interval.
	CommandStopInterval
	// CommandEditInterval renames or re-projects the running interval.
	CommandEditInterval
)

// Command represents an action requested by a client. Room and User are set
// for host/join; Name and ProjectID for start/edit.
type Command struct {
	Kind      CommandKind
	Room      string
	User      string
	Name      string
	ProjectID *int64
}
