package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/focusroom/focusroom/internal/config"
	"github.com/focusroom/focusroom/internal/core"
	"github.com/focusroom/focusroom/internal/store"
	"github.com/focusroom/focusroom/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// startTestServer wires a store, hub and HTTP server around httptest.
// Options tweak the config before the server is built.
func startTestServer(t *testing.T, opts ...func(*config.Config)) (*httptest.Server, store.Store) {
	t.Helper()

	testStore := createTestStore(t)
	hub := core.NewHub(store.NewIntervalGateway(testStore), nil, time.Second)

	disabledLogger := zerolog.Nop()
	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := NewServer(hub, testStore, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, testStore
}
