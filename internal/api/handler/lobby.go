package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/request"
	"github.com/mcoot/wordlobby/internal/api/response"
	"github.com/mcoot/wordlobby/internal/api/sse"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/services/game"
	"github.com/mcoot/wordlobby/internal/services/lobby"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	game game.ControllerInterface
	hubs *sse.HubManager
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(game game.ControllerInterface, hubs *sse.HubManager) *LobbyHandler {
	return &LobbyHandler{game: game, hubs: hubs}
}

func lobbyIDFromPath(r *http.Request) (model.LobbyID, error) {
	return lobby.NormalizeID(mux.Vars(r)["id"])
}

func (h *LobbyHandler) writeLobby(w http.ResponseWriter, r *http.Request, status int, id model.LobbyID) {
	l, err := h.game.GetLobby(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	members, err := h.game.LobbyMembers(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.LobbyFromModel(l, members))
}

// Create handles POST /api/v1/lobbies. The caller becomes the owner and
// first member.
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.CreateLobbyRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.game.CreateLobby(r.Context(), model.LobbyID(req.ID), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeLobby(w, r, http.StatusCreated, l.ID)
}

// Get handles GET /api/v1/lobbies/{id}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeLobby(w, r, http.StatusOK, id)
}

// Join handles POST /api/v1/lobbies/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.game.JoinLobby(r.Context(), playerID, id); err != nil {
		WriteError(w, err)
		return
	}
	h.writeLobby(w, r, http.StatusOK, id)
}

// Enter handles GET /api/v1/lobbies/{id}/enter, the target of a lobby's QR
// code. A device without a valid userid cookie is issued a handle first, so
// one request is enough to join from a fresh browser.
func (h *LobbyHandler) Enter(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := h.game.GetLobby(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	existing, _ := middleware.HandleFromRequest(r)
	playerID, created, err := h.game.InitPlayer(r.Context(), existing)
	if err != nil {
		WriteError(w, err)
		return
	}
	if created {
		middleware.SetSessionCookie(w, playerID)
	}

	if err := h.game.JoinLobby(r.Context(), playerID, id); err != nil {
		WriteError(w, err)
		return
	}
	h.writeLobby(w, r, http.StatusOK, id)
}

// Leave handles POST /api/v1/lobbies/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	if err := h.game.LeaveLobby(r.Context(), playerID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Results handles GET /api/v1/lobbies/{id}/results
func (h *LobbyHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.game.Results(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ResultFromModel(result))
}

// Events handles GET /api/v1/lobbies/{id}/events as a server-sent event
// stream. Watching needs no session.
func (h *LobbyHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := h.game.GetLobby(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(r.Context())
	sse.ServeSSE(w, r, h.hubs.GetOrCreateHub(id), playerID)
}

// Socket handles GET /api/v1/lobbies/{id}/ws, the websocket form of Events
func (h *LobbyHandler) Socket(w http.ResponseWriter, r *http.Request) {
	id, err := lobbyIDFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := h.game.GetLobby(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(r.Context())
	sse.ServeWS(w, r, h.hubs.GetOrCreateHub(id), playerID)
}
