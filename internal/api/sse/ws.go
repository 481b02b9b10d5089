package sse

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/wordlobby/internal/model"
)

const (
	// Time allowed to write one frame
	writeWait = 10 * time.Second

	// Time allowed between pongs before the peer counts as gone
	pongWait = 60 * time.Second

	// Must be shorter than pongWait
	wsPingPeriod = (pongWait * 9) / 10

	// Watchers have nothing to say; anything bigger is dropped with the connection
	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is the JSON text frame sent to websocket watchers
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newFrame(m Message) Frame {
	data := json.RawMessage(m.Data)
	if !json.Valid(data) {
		data, _ = json.Marshal(m.Data)
	}
	return Frame{Event: m.Event, Data: data}
}

// ServeWS upgrades the request and streams hub messages as JSON frames
// until the peer disconnects or the hub closes. Inbound frames are ignored.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		hub.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	client := NewClient(hub, playerID)
	hub.Register(client)
	defer hub.Unregister(client)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(maxInboundSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(m Message) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(newFrame(m))
	}

	if err := write(Message{Event: "connected", Data: `{"status":"connected"}`}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "lobby closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-gone:
			return
		}
	}
}
