package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeHost          = "host"
	InboundTypeJoin          = "join"
	InboundTypeLeave         = "leave"
	InboundTypeStartInterval = "start_interval"
	InboundTypeStopInterval  = "stop_interval"
	InboundTypeEditInterval  = "edit_interval"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// HostData asks for a fresh room. ID is the client's own user id.
type HostData struct {
	ID string `json:"ID"`
}

// JoinData requests to join a specific room as a specific user.
type JoinData struct {
	Room string `json:"room"`
	ID   string `json:"ID"`
}

// IntervalData carries start_interval / edit_interval parameters.
type IntervalData struct {
	Name      string `json:"name"`
	ProjectID *int64 `json:"project_id"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventHosted returns the freshly created room id to the hosting client.
type EventHosted struct {
	RoomID string `json:"roomId"`
}

// EventJoined announces a new member to the whole room, newcomer included.
type EventJoined struct {
	UserID string `json:"userID"`
}

// EventLeft announces a departure to the remaining members.
type EventLeft struct {
	UserID string `json:"userID"`
}

// EventIntervalStarted announces a started interval to the other members.
type EventIntervalStarted struct {
	UserID     string `json:"userID"`
	IntervalID string `json:"interval_id"`
	Name       string `json:"name"`
	ProjectID  *int64 `json:"project_id"`
	StartTime  string `json:"start_time"`
}

// EventIntervalStopped announces the closed interval record to the other
// members.
type EventIntervalStopped struct {
	UserID     string `json:"userID"`
	IntervalID string `json:"interval_id"`
	Name       string `json:"name"`
	ProjectID  *int64 `json:"project_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// EventIntervalEdited announces the renamed interval to the other members.
type EventIntervalEdited struct {
	UserID       string `json:"userID"`
	IntervalID   string `json:"interval_id"`
	IntervalName string `json:"interval_name"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
