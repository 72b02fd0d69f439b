package core

import (
	"context"
	"time"
)

// IntervalGateway is the durable-storage boundary the hub crosses before
// broadcasting an interval transition. A broadcast implies the matching
// write already succeeded. Implementations live in the store layer.
type IntervalGateway interface {
	// CreateInterval persists a new running interval and returns its
	// durable id.
	CreateInterval(ctx context.Context, userID string, projectID *int64, name string, start time.Time) (int64, error)

	// EndInterval closes a running interval with the given end time.
	EndInterval(ctx context.Context, intervalID int64, end time.Time) error

	// EditInterval rewrites the interval's name, project and times.
	// end is nil while the interval is still running.
	EditInterval(ctx context.Context, intervalID int64, name string, projectID *int64, start time.Time, end *time.Time) error
}
