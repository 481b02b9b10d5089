package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/wordlobby/internal/model"
)

// Publish encodes a lobby event as JSON and broadcasts it to the lobby's
// hub. Lobbies nobody is watching have no hub and the event is dropped.
func (m *HubManager) Publish(event model.Event) {
	hub := m.GetHub(event.LobbyID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("sse failed to encode event",
			slog.String("lobby_id", string(event.LobbyID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}

// CloseLobby closes the lobby's hub, ending every stream attached to it
// after the messages already queued are delivered
func (m *HubManager) CloseLobby(lobbyID model.LobbyID) {
	m.RemoveHub(lobbyID)
}
