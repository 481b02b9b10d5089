package sse

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/testutil"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, hub, "watcher")
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServeWSStreamsFrames(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	hub := manager.GetOrCreateHub("L1")

	conn := dialHub(t, hub)

	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "connected", frame.Event)
	assert.JSONEq(t, `{"status":"connected"}`, string(frame.Data))
	waitForClients(t, hub, 1)

	manager.Publish(model.Event{
		Type:    model.EventPlayerJoined,
		LobbyID: "L1",
		Payload: model.PlayerJoinedPayload{DisplayName: "bob", MemberCount: 2},
	})

	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "player_joined", frame.Event)
	assert.Contains(t, string(frame.Data), `"display_name":"bob"`)

	hub.BroadcastEvent("note", "plain text")
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, `"plain text"`, string(frame.Data))
}

func TestServeWSClosesWithHub(t *testing.T) {
	hub := NewHub("L1", testutil.NopLogger())
	go hub.Run()

	conn := dialHub(t, hub)

	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	waitForClients(t, hub, 1)

	hub.Close()

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestServeWSUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub("L1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	conn := dialHub(t, hub)

	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}
