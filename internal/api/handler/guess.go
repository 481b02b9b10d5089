package handler

import (
	"net/http"

	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/request"
	"github.com/mcoot/wordlobby/internal/api/response"
	"github.com/mcoot/wordlobby/internal/services/game"
)

// GuessHandler handles guess submission
type GuessHandler struct {
	game game.ControllerInterface
}

// NewGuessHandler creates a new guess handler
func NewGuessHandler(game game.ControllerInterface) *GuessHandler {
	return &GuessHandler{game: game}
}

// Submit handles POST /api/v1/guesses
func (h *GuessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.GuessRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.game.SubmitMove(r.Context(), playerID, req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.SubmitResponse{Guess: response.GuessFromModel(result.Guess)}
	if result.Winner != nil {
		name := result.Winner.DisplayName()
		resp.Win = result.Winner.ID == playerID
		resp.Winner = &name
	}
	response.JSON(w, http.StatusOK, resp)
}
