package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/testutil"
)

func TestPublishEncodesEventAsJSON(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub := manager.GetOrCreateHub("L1")
	client := NewClient(hub, "watcher")
	hub.Register(client)
	waitForClients(t, hub, 1)

	manager.Publish(model.Event{
		Type:      model.EventGuessSubmitted,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LobbyID:   "L1",
		PlayerID:  "p1",
		Payload: model.GuessSubmittedPayload{
			DisplayName: "alice",
			Colors:      []model.CharColor{model.ColorGreen, model.ColorGray},
			GuessCount:  1,
		},
	})

	var msg Message
	select {
	case msg = <-client.send:
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	assert.Equal(t, "guess_submitted", msg.Event)
	data := msg.Data
	require.False(t, strings.Contains(data, "\n"), "event data fits one SSE data line")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, "guess_submitted", decoded["type"])
	assert.Equal(t, "L1", decoded["lobby_id"])

	payload, ok := decoded["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", payload["display_name"])
	assert.Equal(t, []any{"green", "gray"}, payload["colors"])
	assert.NotContains(t, data, "word")
}

func TestPublishWithoutHubIsDropped(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	manager.Publish(model.Event{Type: model.EventGameWon, LobbyID: "nobody"})
	assert.Nil(t, manager.GetHub("nobody"))
}

func TestCloseLobbyEndsStreamAfterFinalEvent(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub := manager.GetOrCreateHub("L1")
	client := NewClient(hub, "watcher")
	hub.Register(client)
	waitForClients(t, hub, 1)

	manager.Publish(model.Event{Type: model.EventGameWon, LobbyID: "L1"})
	manager.CloseLobby("L1")

	var got []string
	timeout := time.After(time.Second)
	for done := false; !done; {
		select {
		case msg, ok := <-client.send:
			if !ok {
				done = true
				break
			}
			got = append(got, msg.Event)
		case <-timeout:
			t.Fatal("stream not closed")
		}
	}

	assert.Equal(t, []string{"game_won"}, got)
	assert.Nil(t, manager.GetHub("L1"))
}
