package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// User represents a tracked account.
type User struct {
	ID             int64
	Username       string
	Email          string
	Timezone       string
	ProfilePicture *string
	CreatedAt      time.Time
}

// Interval represents a timed work session. EndTime is nil while the
// interval is still running.
type Interval struct {
	ID        int64
	UserID    int64
	ProjectID *int64
	Name      string
	StartTime time.Time
	EndTime   *time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user and returns it with its assigned id.
	CreateUser(ctx context.Context, username, email, timezone string, profilePicture *string) (*User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUsersByIDs retrieves several users at once. Unknown ids are
	// silently skipped.
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*User, error)

	// UpdateUserTimezone updates a user's timezone setting.
	UpdateUserTimezone(ctx context.Context, id int64, timezone string) error

	// DeleteUser removes a user and all of their intervals.
	DeleteUser(ctx context.Context, id int64) error
}

// IntervalStore handles interval persistence.
type IntervalStore interface {
	// CreateInterval persists a new running interval.
	CreateInterval(ctx context.Context, userID int64, projectID *int64, name string, start time.Time) (*Interval, error)

	// EndInterval sets the end time of an interval.
	EndInterval(ctx context.Context, id int64, end time.Time) error

	// UpdateInterval rewrites an interval's name, project and times.
	UpdateInterval(ctx context.Context, id int64, name string, projectID *int64, start time.Time, end *time.Time) error

	// GetInterval retrieves an interval by id.
	GetInterval(ctx context.Context, id int64) (*Interval, error)

	// ListFinishedIntervals returns a user's ended intervals ordered by
	// start time.
	ListFinishedIntervals(ctx context.Context, userID int64) ([]*Interval, error)

	// GetActiveInterval returns the user's oldest still-running interval,
	// or ErrNotFound if none is open.
	GetActiveInterval(ctx context.Context, userID int64) (*Interval, error)

	// DeleteInterval removes an interval.
	DeleteInterval(ctx context.Context, id int64) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	IntervalStore

	// Close closes the underlying database connection.
	Close() error
}
