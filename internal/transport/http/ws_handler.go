package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/focusroom/focusroom/internal/core"
	"github.com/focusroom/focusroom/internal/proto"
	"github.com/focusroom/focusroom/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Connection.
type WSHandler struct {
	hub          *core.Hub
	log          *zerolog.Logger
	rateLimit    int
	maxFrameSize int64
}

// NewWSHandler builds a new WebSocket handler. rateLimit caps inbound frames
// per connection per minute, maxFrameSize caps a single frame's size in
// bytes; zero disables either.
func NewWSHandler(hub *core.Hub, logger *zerolog.Logger, rateLimit int, maxFrameSize int64) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger, rateLimit: rateLimit, maxFrameSize: maxFrameSize}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.maxFrameSize > 0 {
		conn.SetReadLimit(h.maxFrameSize)
	}

	client := core.NewConnection(utils.NewID())
	h.hub.RegisterConnection(client)
	defer h.hub.UnregisterConnection(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := newRateLimiter(h.rateLimit)
	limiter.startReset(ctx.Done())

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Connection, limiter *rateLimiter) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: "rate_limited", Msg: "too many events"},
			}); writeErr != nil {
				return writeErr
			}
			continue
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("failed to map inbound")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		h.hub.Handle(client, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Connection) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
