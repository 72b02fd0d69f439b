package sqlite

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/focusroom/focusroom/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "Europe/Berlin", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 || user.Username != "alice" || user.Timezone != "Europe/Berlin" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := s.UpdateUserTimezone(ctx, user.ID, "America/Los_Angeles"); err != nil {
		t.Fatalf("update timezone: %v", err)
	}
	updated, err := s.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if updated.Timezone != "America/Los_Angeles" {
		t.Fatalf("expected updated timezone, got %q", updated.Timezone)
	}

	if err := s.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.GetUserByID(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteUser(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestGetUsersByIDsSkipsUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"alice", "bob", "charlie"} {
		user, err := s.CreateUser(ctx, name, name+"@example.com", "UTC", nil)
		if err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
		ids = append(ids, user.ID)
	}

	users, err := s.GetUsersByIDs(ctx, append(ids, 9999))
	if err != nil {
		t.Fatalf("get users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestIntervalLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "UTC", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	start := time.Now().UTC().Truncate(time.Second)
	interval, err := s.CreateInterval(ctx, user.ID, nil, "deep work", start)
	if err != nil {
		t.Fatalf("create interval: %v", err)
	}
	if interval.ID == 0 || interval.EndTime != nil {
		t.Fatalf("unexpected interval: %+v", interval)
	}

	active, err := s.GetActiveInterval(ctx, user.ID)
	if err != nil {
		t.Fatalf("get active interval: %v", err)
	}
	if active.ID != interval.ID {
		t.Fatalf("expected active interval %d, got %d", interval.ID, active.ID)
	}

	projectID := int64(7)
	if err := s.UpdateInterval(ctx, interval.ID, "deeper work", &projectID, start, nil); err != nil {
		t.Fatalf("update interval: %v", err)
	}
	edited, err := s.GetInterval(ctx, interval.ID)
	if err != nil {
		t.Fatalf("get interval: %v", err)
	}
	if edited.Name != "deeper work" || edited.ProjectID == nil || *edited.ProjectID != 7 {
		t.Fatalf("unexpected edited interval: %+v", edited)
	}

	end := start.Add(25 * time.Minute)
	if err := s.EndInterval(ctx, interval.ID, end); err != nil {
		t.Fatalf("end interval: %v", err)
	}
	if _, err := s.GetActiveInterval(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no active interval, got %v", err)
	}

	finished, err := s.ListFinishedIntervals(ctx, user.ID)
	if err != nil {
		t.Fatalf("list finished: %v", err)
	}
	if len(finished) != 1 || finished[0].EndTime == nil {
		t.Fatalf("unexpected finished intervals: %+v", finished)
	}

	if err := s.DeleteInterval(ctx, interval.ID); err != nil {
		t.Fatalf("delete interval: %v", err)
	}
	if _, err := s.GetInterval(ctx, interval.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveIntervalPicksOldest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "UTC", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	older, err := s.CreateInterval(ctx, user.ID, nil, "first", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("create older interval: %v", err)
	}
	if _, err := s.CreateInterval(ctx, user.ID, nil, "second", now); err != nil {
		t.Fatalf("create newer interval: %v", err)
	}

	active, err := s.GetActiveInterval(ctx, user.ID)
	if err != nil {
		t.Fatalf("get active interval: %v", err)
	}
	if active.ID != older.ID {
		t.Fatalf("expected oldest open interval %d, got %d", older.ID, active.ID)
	}
}

func TestDeleteUserCascadesIntervals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "UTC", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	interval, err := s.CreateInterval(ctx, user.ID, nil, "deep work", time.Now().UTC())
	if err != nil {
		t.Fatalf("create interval: %v", err)
	}

	if err := s.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := s.GetInterval(ctx, interval.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected interval to cascade, got %v", err)
	}
}

func TestGatewayAdapterParsesUserID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "alice@example.com", "UTC", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	gateway := store.NewIntervalGateway(s)

	id, err := gateway.CreateInterval(ctx, strconv.FormatInt(user.ID, 10), nil, "deep work", time.Now().UTC())
	if err != nil {
		t.Fatalf("gateway create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a durable interval id")
	}

	if _, err := gateway.CreateInterval(ctx, "not-a-number", nil, "x", time.Now().UTC()); err == nil {
		t.Fatal("expected error for non-numeric user id")
	}

	if err := gateway.EndInterval(ctx, id, time.Now().UTC()); err != nil {
		t.Fatalf("gateway end: %v", err)
	}
	if _, err := s.GetActiveInterval(ctx, user.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected interval closed, got %v", err)
	}
}
