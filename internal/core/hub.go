package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPersistTimeout bounds gateway calls when no timeout is configured.
const DefaultPersistTimeout = 5 * time.Second

// Hub coordinates room membership and fans out state-transition events.
//
// Every mutating operation on one room is serialized by that room's mutex,
// including the persistence call for interval transitions, so two members
// racing start_interval cannot both pass the no-active-interval check.
// Different rooms share no lock and proceed in parallel. The hub mutex only
// guards the room map and is never held while waiting on a room.
type Hub struct {
	log      *zerolog.Logger
	gateway  IntervalGateway
	timeout  time.Duration
	registry *Registry

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewHub creates a hub backed by the given interval gateway. persistTimeout
// bounds each gateway call; zero selects DefaultPersistTimeout.
func NewHub(gateway IntervalGateway, logger *zerolog.Logger, persistTimeout time.Duration) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if persistTimeout <= 0 {
		persistTimeout = DefaultPersistTimeout
	}
	return &Hub{
		log:      logger,
		gateway:  gateway,
		timeout:  persistTimeout,
		registry: NewRegistry(),
		rooms:    make(map[string]*Room),
	}
}

// RegisterConnection makes a connection known to the hub.
func (h *Hub) RegisterConnection(conn *Connection) {
	h.registry.Register(conn)
	h.log.Debug().Str("conn_id", conn.ID).Msg("connection registered")
}

// UnregisterConnection removes a connection. If it belongs to a room the
// leave path runs first, so peers are notified even on abrupt disconnect.
// A running interval owned by the disconnecting user is left as is; the
// owner can reconnect under the same user id and stop it.
func (h *Hub) UnregisterConnection(conn *Connection) {
	if conn.room != nil {
		h.leaveRoom(conn)
	}
	h.registry.Unregister(conn.ID)
	h.log.Debug().Str("conn_id", conn.ID).Msg("connection unregistered")
}

// Handle processes one inbound command for a connection. Rejections are
// delivered to the originating connection only, as an error event; they
// never broadcast and never terminate the connection.
func (h *Hub) Handle(conn *Connection, cmd *Command) {
	switch cmd.Kind {
	case CommandHost:
		h.handleHost(conn, cmd)
	case CommandJoin:
		h.handleJoin(conn, cmd)
	case CommandLeave:
		h.handleLeave(conn)
	case CommandStartInterval:
		h.handleStart(conn, cmd)
	case CommandStopInterval:
		h.handleStop(conn)
	case CommandEditInterval:
		h.handleEdit(conn, cmd)
	default:
		h.reject(conn, ErrCodeBadRequest, "unknown command")
	}
}

func (h *Hub) handleHost(conn *Connection, cmd *Command) {
	if cmd.User != "" {
		h.registry.BindUser(conn.ID, cmd.User)
	}
	// Only the id is minted here; the room itself materializes on first
	// join, so hosted-but-never-joined ids leave nothing behind.
	roomID := uuid.NewString()
	conn.send(&Event{Kind: EventHosted, Room: roomID})
	h.log.Info().Str("room", roomID).Str("user", conn.UserID).Msg("room hosted")
}

func (h *Hub) handleJoin(conn *Connection, cmd *Command) {
	if conn.room != nil {
		h.reject(conn, ErrCodeAlreadyMember, ErrAlreadyMember.Error())
		return
	}
	if cmd.User != "" {
		h.registry.BindUser(conn.ID, cmd.User)
	}
	for {
		room := h.getOrCreateRoom(cmd.Room)
		room.mu.Lock()
		if room.dead {
			// Lost a race with the last member leaving; the map entry is
			// gone, so look the room up again.
			room.mu.Unlock()
			continue
		}
		room.addMember(conn)
		conn.room = room
		room.broadcast(&Event{Kind: EventMemberJoined, Room: room.ID, User: conn.UserID}, nil)
		room.mu.Unlock()
		h.log.Info().Str("room", room.ID).Str("user", conn.UserID).Msg("member joined")
		return
	}
}

func (h *Hub) handleLeave(conn *Connection) {
	if conn.room == nil {
		h.reject(conn, ErrCodeNotAMember, ErrNotAMember.Error())
		return
	}
	h.leaveRoom(conn)
}

func (h *Hub) leaveRoom(conn *Connection) {
	room := conn.room
	room.mu.Lock()
	room.removeMember(conn)
	conn.room = nil
	room.broadcast(&Event{Kind: EventMemberLeft, Room: room.ID, User: conn.UserID}, nil)
	if room.empty() {
		// Last member gone: drop the room and any active interval with it.
		room.dead = true
		room.active = nil
		room.mu.Unlock()
		h.mu.Lock()
		if h.rooms[room.ID] == room {
			delete(h.rooms, room.ID)
		}
		h.mu.Unlock()
		h.log.Info().Str("room", room.ID).Msg("room deleted")
		return
	}
	room.mu.Unlock()
	h.log.Info().Str("room", room.ID).Str("user", conn.UserID).Msg("member left")
}

func (h *Hub) handleStart(conn *Connection, cmd *Command) {
	room := conn.room
	if room == nil {
		h.reject(conn, ErrCodeNotAMember, ErrNotAMember.Error())
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.active != nil {
		h.reject(conn, ErrCodeActiveIntervalExists, ErrActiveIntervalExists.Error())
		return
	}

	start := time.Now().UTC()
	ctx, cancel := h.persistCtx()
	defer cancel()
	intervalID, err := h.gateway.CreateInterval(ctx, conn.UserID, cmd.ProjectID, cmd.Name, start)
	if err != nil {
		h.log.Error().Err(err).Str("room", room.ID).Str("user", conn.UserID).Msg("create interval")
		h.reject(conn, ErrCodePersistenceFailure, "failed to start interval")
		return
	}

	room.active = &ActiveInterval{
		ID:        intervalID,
		OwnerID:   conn.UserID,
		Name:      cmd.Name,
		ProjectID: cmd.ProjectID,
		StartTime: start,
	}
	room.broadcast(&Event{
		Kind:     EventIntervalStarted,
		Room:     room.ID,
		User:     conn.UserID,
		Interval: room.active.snapshot(nil),
	}, conn)
	h.log.Info().Str("room", room.ID).Str("user", conn.UserID).Int64("interval_id", intervalID).Msg("interval started")
}

func (h *Hub) handleStop(conn *Connection) {
	room := conn.room
	if room == nil {
		h.reject(conn, ErrCodeNotAMember, ErrNotAMember.Error())
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	active := room.active
	if active == nil {
		h.reject(conn, ErrCodeNoActiveInterval, ErrNoActiveInterval.Error())
		return
	}
	if active.OwnerID != conn.UserID {
		h.reject(conn, ErrCodeNotOwner, ErrNotOwner.Error())
		return
	}

	end := time.Now().UTC()
	ctx, cancel := h.persistCtx()
	defer cancel()
	if err := h.gateway.EndInterval(ctx, active.ID, end); err != nil {
		// The durable outcome is unknown past a timeout; the room state is
		// left unchanged so the owner can retry.
		h.log.Error().Err(err).Str("room", room.ID).Int64("interval_id", active.ID).Msg("end interval")
		h.reject(conn, ErrCodePersistenceFailure, "failed to stop interval")
		return
	}

	room.active = nil
	room.broadcast(&Event{
		Kind:     EventIntervalStopped,
		Room:     room.ID,
		User:     conn.UserID,
		Interval: active.snapshot(&end),
	}, conn)
	h.log.Info().Str("room", room.ID).Int64("interval_id", active.ID).Msg("interval stopped")
}

func (h *Hub) handleEdit(conn *Connection, cmd *Command) {
	room := conn.room
	if room == nil {
		h.reject(conn, ErrCodeNotAMember, ErrNotAMember.Error())
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	active := room.active
	if active == nil {
		h.reject(conn, ErrCodeNoActiveInterval, ErrNoActiveInterval.Error())
		return
	}
	if active.OwnerID != conn.UserID {
		h.reject(conn, ErrCodeNotOwner, ErrNotOwner.Error())
		return
	}

	ctx, cancel := h.persistCtx()
	defer cancel()
	if err := h.gateway.EditInterval(ctx, active.ID, cmd.Name, cmd.ProjectID, active.StartTime, nil); err != nil {
		h.log.Error().Err(err).Str("room", room.ID).Int64("interval_id", active.ID).Msg("edit interval")
		h.reject(conn, ErrCodePersistenceFailure, "failed to edit interval")
		return
	}

	active.Name = cmd.Name
	active.ProjectID = cmd.ProjectID
	room.broadcast(&Event{
		Kind:     EventIntervalEdited,
		Room:     room.ID,
		User:     conn.UserID,
		Interval: active.snapshot(nil),
	}, conn)
	h.log.Info().Str("room", room.ID).Int64("interval_id", active.ID).Msg("interval edited")
}

func (h *Hub) getOrCreateRoom(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[id]
	if room == nil {
		room = NewRoom(id)
		h.rooms[id] = room
	}
	return room
}

// persistCtx bounds a gateway call. It is detached from the connection's
// request context: a disconnect must not cancel an in-flight durable write,
// the broadcast simply becomes undeliverable to the gone connection.
func (h *Hub) persistCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

func (h *Hub) reject(conn *Connection, code, msg string) {
	conn.send(&Event{Kind: EventError, Error: coreError(code, msg)})
}
