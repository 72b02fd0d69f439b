package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// stubGateway is an in-memory IntervalGateway for hub tests.
type stubGateway struct {
	mu      sync.Mutex
	nextID  int64
	creates int
	ends    int
	edits   int
	failAll bool
	block   chan struct{} // when non-nil, calls wait for it or for ctx
}

func (g *stubGateway) CreateInterval(ctx context.Context, userID string, projectID *int64, name string, start time.Time) (int64, error) {
	if err := g.wait(ctx); err != nil {
		return 0, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll {
		return 0, errors.New("storage down")
	}
	g.nextID++
	g.creates++
	return g.nextID, nil
}

func (g *stubGateway) EndInterval(ctx context.Context, intervalID int64, end time.Time) error {
	if err := g.wait(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll {
		return errors.New("storage down")
	}
	g.ends++
	return nil
}

func (g *stubGateway) EditInterval(ctx context.Context, intervalID int64, name string, projectID *int64, start time.Time, end *time.Time) error {
	if err := g.wait(ctx); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll {
		return errors.New("storage down")
	}
	g.edits++
	return nil
}

func (g *stubGateway) wait(ctx context.Context) error {
	if g.block == nil {
		return nil
	}
	select {
	case <-g.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *stubGateway) createCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates
}

func newTestHub(gateway IntervalGateway) *Hub {
	return NewHub(gateway, nil, 200*time.Millisecond)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
			t.Fatalf("expected event kind %v, got %+v", kind, ev)
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustErrorEvent(t *testing.T, ch <-chan *Event, code string) *Event {
	t.Helper()

	ev := mustEvent(t, ch, EventError)
	if ev.Error == nil || ev.Error.Code != code {
		t.Fatalf("expected %s error, got %+v", code, ev)
	}
	return ev
}

func noEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *Hub) roomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}
