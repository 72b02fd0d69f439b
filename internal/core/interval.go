package core

import "time"

// ActiveInterval is the single in-flight work interval visible to a room.
// OwnerID is a user id rather than a connection id, so an owner who
// reconnects under the same id keeps control of the running interval.
type ActiveInterval struct {
	ID        int64
	OwnerID   string
	Name      string
	ProjectID *int64
	StartTime time.Time
}

// IntervalSnapshot carries interval fields on outbound start/stop/edit
// events. EndTime is set only on stop.
type IntervalSnapshot struct {
	ID        int64
	Name      string
	ProjectID *int64
	StartTime time.Time
	EndTime   *time.Time
}

func (a *ActiveInterval) snapshot(end *time.Time) *IntervalSnapshot {
	return &IntervalSnapshot{
		ID:        a.ID,
		Name:      a.Name,
		ProjectID: a.ProjectID,
		StartTime: a.StartTime,
		EndTime:   end,
	}
}
