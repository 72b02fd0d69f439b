package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/focusroom/focusroom/internal/config"
	"github.com/focusroom/focusroom/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ctx context.Context, ts *testWSServer) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, ts.url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

type testWSServer struct {
	url string
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()
	var outbound struct {
		Type  string          `json:"type"`
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
		Error *proto.Error    `json:"error"`
	}
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return proto.Outbound{Type: outbound.Type, Event: outbound.Event, Data: outbound.Data, Error: outbound.Error}
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	var payload json.RawMessage
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", msgType, err)
		}
		payload = raw
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestWebSocketHostReturnsRoomID(t *testing.T) {
	ts, _ := startTestServer(t)
	wsServer := &testWSServer{url: strings.Replace(ts.URL, "http", "ws", 1) + "/ws"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsServer)
	sendInbound(t, ctx, conn, proto.InboundTypeHost, proto.HostData{ID: "11002331"})

	outbound := readOutbound(t, ctx, conn)
	if outbound.Type != proto.OutboundTypeEvent || outbound.Event != "host" {
		t.Fatalf("unexpected outbound: %+v", outbound)
	}
	var hosted proto.EventHosted
	if err := json.Unmarshal(outbound.Data.(json.RawMessage), &hosted); err != nil {
		t.Fatalf("unmarshal host data: %v", err)
	}
	if hosted.RoomID == "" {
		t.Fatal("expected a room id")
	}
}

func TestWebSocketSessionRoundTrip(t *testing.T) {
	ts, testStore := startTestServer(t)
	wsServer := &testWSServer{url: strings.Replace(ts.URL, "http", "ws", 1) + "/ws"}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := testStore.CreateUser(ctx, "alice", "alice@example.com", "UTC", nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	userID := "1"
	if user.ID != 1 {
		t.Fatalf("expected first user id 1, got %d", user.ID)
	}

	connA := dialWS(t, ctx, wsServer)
	connB := dialWS(t, ctx, wsServer)

	// A joins and sees its own join broadcast.
	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "T", ID: userID})
	joinA := readOutbound(t, ctx, connA)
	if joinA.Event != "join" {
		t.Fatalf("expected join event, got %+v", joinA)
	}

	// B joins; both see the newcomer.
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "T", ID: "11002330"})
	for _, conn := range []*websocket.Conn{connA, connB} {
		outbound := readOutbound(t, ctx, conn)
		if outbound.Event != "join" {
			t.Fatalf("expected join event, got %+v", outbound)
		}
		var joined proto.EventJoined
		if err := json.Unmarshal(outbound.Data.(json.RawMessage), &joined); err != nil {
			t.Fatalf("unmarshal join data: %v", err)
		}
		if joined.UserID != "11002330" {
			t.Fatalf("expected join broadcast for 11002330, got %+v", joined)
		}
	}

	// A starts an interval; only B is notified.
	sendInbound(t, ctx, connA, proto.InboundTypeStartInterval, proto.IntervalData{Name: "Test Interval"})
	startFrame := readOutbound(t, ctx, connB)
	if startFrame.Event != "start" {
		t.Fatalf("expected start event, got %+v", startFrame)
	}
	var started proto.EventIntervalStarted
	if err := json.Unmarshal(startFrame.Data.(json.RawMessage), &started); err != nil {
		t.Fatalf("unmarshal start data: %v", err)
	}
	if started.UserID != userID || started.IntervalID == "" || started.StartTime == "" {
		t.Fatalf("unexpected start payload: %+v", started)
	}

	// A stops it; B gets the closed record with matching id.
	sendInbound(t, ctx, connA, proto.InboundTypeStopInterval, nil)
	stopFrame := readOutbound(t, ctx, connB)
	if stopFrame.Event != "stop" {
		t.Fatalf("expected stop event, got %+v", stopFrame)
	}
	var stopped proto.EventIntervalStopped
	if err := json.Unmarshal(stopFrame.Data.(json.RawMessage), &stopped); err != nil {
		t.Fatalf("unmarshal stop data: %v", err)
	}
	if stopped.IntervalID != started.IntervalID || stopped.EndTime == "" || stopped.Name == "" {
		t.Fatalf("unexpected stop payload: %+v", stopped)
	}

	// A leaves; B alone is notified.
	sendInbound(t, ctx, connA, proto.InboundTypeLeave, nil)
	leaveFrame := readOutbound(t, ctx, connB)
	if leaveFrame.Event != "leave" {
		t.Fatalf("expected leave event, got %+v", leaveFrame)
	}
	var left proto.EventLeft
	if err := json.Unmarshal(leaveFrame.Data.(json.RawMessage), &left); err != nil {
		t.Fatalf("unmarshal leave data: %v", err)
	}
	if left.UserID != userID {
		t.Fatalf("expected leave for %s, got %+v", userID, left)
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	ts, _ := startTestServer(t)
	wsServer := &testWSServer{url: strings.Replace(ts.URL, "http", "ws", 1) + "/ws"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsServer)
	sendInbound(t, ctx, conn, "bogus", nil)

	outbound := readOutbound(t, ctx, conn)
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil {
		t.Fatalf("expected error frame, got %+v", outbound)
	}
}

func TestWebSocketOversizedFrameClosesConnection(t *testing.T) {
	ts, _ := startTestServer(t, func(cfg *config.Config) {
		cfg.MaxMessageBytes = 256
	})
	wsServer := &testWSServer{url: strings.Replace(ts.URL, "http", "ws", 1) + "/ws"}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, wsServer)
	sendInbound(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{
		Room: strings.Repeat("x", 4096),
		ID:   "u1",
	})

	var outbound proto.Outbound
	err := wsjson.Read(ctx, conn, &outbound)
	if err == nil {
		t.Fatalf("expected the server to close the connection, got %+v", outbound)
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusMessageTooBig {
		t.Fatalf("expected message-too-big close, got status %d (%v)", status, err)
	}
}
