package core

import "sync"

// Registry tracks live connections by id. It holds no cross-entity
// invariants; everything touching room state goes through the hub's
// per-room serialization.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Register adds a connection. Registering an already known id is a no-op
// and returns the existing connection.
func (r *Registry) Register(conn *Connection) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.conns[conn.ID]; ok {
		return existing
	}
	r.conns[conn.ID] = conn
	return conn
}

// Get returns the connection for an id.
func (r *Registry) Get(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[id]
	return conn, ok
}

// BindUser associates the client-supplied user id with the connection.
func (r *Registry) BindUser(id, userID string) {
	r.mu.RLock()
	conn, ok := r.conns[id]
	r.mu.RUnlock()
	if ok {
		conn.UserID = userID
	}
}

// Unregister removes the connection and returns it, nil if unknown.
func (r *Registry) Unregister(id string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		return nil
	}
	delete(r.conns, id)
	return conn
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
