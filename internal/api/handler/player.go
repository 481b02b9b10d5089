package handler

import (
	"net/http"

	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/request"
	"github.com/mcoot/wordlobby/internal/api/response"
	"github.com/mcoot/wordlobby/internal/services/game"
)

// PlayerHandler handles player session endpoints
type PlayerHandler struct {
	game game.ControllerInterface
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(game game.ControllerInterface) *PlayerHandler {
	return &PlayerHandler{game: game}
}

// Init handles POST /api/v1/players. A valid userid cookie is confirmed,
// anything else gets a fresh handle.
func (h *PlayerHandler) Init(w http.ResponseWriter, r *http.Request) {
	existing, _ := middleware.HandleFromRequest(r)

	id, created, err := h.game.InitPlayer(r.Context(), existing)
	if err != nil {
		WriteError(w, err)
		return
	}
	p, err := h.game.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		middleware.SetSessionCookie(w, id)
		status = http.StatusCreated
	}
	response.JSON(w, status, response.InitResponse{
		Player:  response.PlayerFromModel(p),
		Created: created,
	})
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetPlayerID(r.Context())

	p, err := h.game.GetPlayer(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// UpdateMe handles PATCH /api/v1/players/me
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetPlayerID(r.Context())

	var req request.UpdatePlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.game.SetName(r.Context(), id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// History handles GET /api/v1/players/me/guesses
func (h *PlayerHandler) History(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetPlayerID(r.Context())

	guesses, err := h.game.History(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GuessesFromModel(guesses))
}
