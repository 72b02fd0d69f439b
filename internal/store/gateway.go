package store

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// IntervalGateway adapts a Store to the hub's durable-write interface.
// The hub deals in opaque client-supplied user ids; this adapter maps them
// onto the store's numeric ids. A non-numeric id fails the write, which the
// hub reports as a persistence failure to the originating connection.
type IntervalGateway struct {
	st Store
}

// NewIntervalGateway wraps a store for use by the hub.
func NewIntervalGateway(st Store) *IntervalGateway {
	return &IntervalGateway{st: st}
}

// CreateInterval persists a new running interval and returns its id.
func (g *IntervalGateway) CreateInterval(ctx context.Context, userID string, projectID *int64, name string, start time.Time) (int64, error) {
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse user id %q: %w", userID, err)
	}
	interval, err := g.st.CreateInterval(ctx, uid, projectID, name, start)
	if err != nil {
		return 0, fmt.Errorf("create interval: %w", err)
	}
	return interval.ID, nil
}

// EndInterval closes a running interval.
func (g *IntervalGateway) EndInterval(ctx context.Context, intervalID int64, end time.Time) error {
	if err := g.st.EndInterval(ctx, intervalID, end); err != nil {
		return fmt.Errorf("end interval: %w", err)
	}
	return nil
}

// EditInterval rewrites an interval's name, project and times.
func (g *IntervalGateway) EditInterval(ctx context.Context, intervalID int64, name string, projectID *int64, start time.Time, end *time.Time) error {
	if err := g.st.UpdateInterval(ctx, intervalID, name, projectID, start, end); err != nil {
		return fmt.Errorf("edit interval: %w", err)
	}
	return nil
}
