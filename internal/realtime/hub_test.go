package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/leadflow/internal/realtime"
)

// dialRoom connects a test websocket client to the given project room.
func dialRoom(t *testing.T, server *httptest.Server, projectID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/projects/" + projectID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "failed to dial websocket")
	t.Cleanup(func() { conn.Close() })

	return conn
}

func newTestServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := realtime.ServeWS(hub, r.PathValue("id"), w, r); err != nil {
			t.Logf("websocket upgrade failed: %v", err)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestHub_BroadcastReachesRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn := dialRoom(t, server, "project-1")

	// Give the hub a moment to register the connection
	time.Sleep(100 * time.Millisecond)

	hub.Broadcast("project-1", "lead_advanced", map[string]any{
		"lead_id": "lead-1",
		"from":    "New",
		"to":      "Qualified",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event realtime.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "lead_advanced", event.Type)

	data, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lead-1", data["lead_id"])
	assert.Equal(t, "Qualified", data["to"])
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn1 := dialRoom(t, server, "project-1")
	conn2 := dialRoom(t, server, "project-2")

	time.Sleep(100 * time.Millisecond)

	hub.Broadcast("project-1", "lead_created", map[string]any{"lead_id": "lead-1"})

	// The member of project-1 receives the event
	conn1.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn1.ReadMessage()
	require.NoError(t, err)

	var event realtime.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "lead_created", event.Type)

	// The member of project-2 does not
	conn2.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err = conn2.ReadMessage()
	assert.Error(t, err, "expected a read timeout in the other room")
}

func TestHub_FansOutToAllRoomMembers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn1 := dialRoom(t, server, "project-1")
	conn2 := dialRoom(t, server, "project-1")

	time.Sleep(100 * time.Millisecond)

	hub.Broadcast("project-1", "lead_commented", map[string]any{"lead_id": "lead-1"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var event realtime.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, "lead_commented", event.Type)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn := dialRoom(t, server, "project-1")

	time.Sleep(100 * time.Millisecond)

	cancel()

	// The connected client is closed promptly
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "expected the connection to close on shutdown")

	// A client arriving after shutdown is refused without blocking the
	// handler goroutine
	lateConn := dialRoom(t, server, "project-1")
	lateConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = lateConn.ReadMessage()
	assert.Error(t, err, "expected the late connection to be refused")

	// Dropping a client after shutdown must not block readPump either
	conn.Close()
	time.Sleep(100 * time.Millisecond)
}

func TestHub_ClientMessagesAreDiscarded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	conn := dialRoom(t, server, "project-1")

	time.Sleep(100 * time.Millisecond)

	// Inbound frames are treated as keepalives; the connection stays usable
	err := conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":"world"}`))
	require.NoError(t, err)

	hub.Broadcast("project-1", "lead_assigned", map[string]any{"lead_id": "lead-1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event realtime.Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "lead_assigned", event.Type)
}
