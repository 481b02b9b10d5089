package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/response"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/services/game"
)

// LegacyHandler serves the original cookie-only routes. Failures never
// surface as HTTP errors: join answers "false" and submit sets error.
type LegacyHandler struct {
	game game.ControllerInterface
}

// NewLegacyHandler creates a new legacy handler
func NewLegacyHandler(game game.ControllerInterface) *LegacyHandler {
	return &LegacyHandler{game: game}
}

// Init handles GET /init. The cookie is only set when a new handle is issued.
func (h *LegacyHandler) Init(w http.ResponseWriter, r *http.Request) {
	existing, _ := middleware.HandleFromRequest(r)

	id, created, err := h.game.InitPlayer(r.Context(), existing)
	if err == nil && created {
		middleware.SetSessionCookie(w, id)
	}
	w.WriteHeader(http.StatusOK)
}

// Join handles GET /join/{lobby_id}
func (h *LegacyHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.HandleFromRequest(r)
	if !ok {
		writeBool(w, false)
		return
	}

	err := h.game.JoinLobby(r.Context(), id, model.LobbyID(mux.Vars(r)["lobby_id"]))
	writeBool(w, err == nil)
}

// Submit handles GET /submit/{guess}
func (h *LegacyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.HandleFromRequest(r)
	if !ok {
		SubmitFailure(w, r)
		return
	}

	result, err := h.game.SubmitMove(r.Context(), id, mux.Vars(r)["guess"])
	if err != nil {
		SubmitFailure(w, r)
		return
	}

	resp := response.LegacySubmit{}
	if result.Winner != nil {
		resp.Win = result.Winner.DisplayName()
	}
	response.JSON(w, http.StatusOK, resp)
}

// JoinFailure is the legacy join answer for any failure
func JoinFailure(w http.ResponseWriter, _ *http.Request) {
	writeBool(w, false)
}

// SubmitFailure is the legacy submit answer for any failure
func SubmitFailure(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.LegacySubmit{Error: true})
}

func writeBool(w http.ResponseWriter, v bool) {
	response.Text(w, http.StatusOK, strconv.FormatBool(v))
}
