package handler

import (
	"net/http"

	"github.com/mcoot/wordlobby/internal/api/response"
)

// WordCounter reports how many words are loaded
type WordCounter interface {
	WordCount() int
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	words WordCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(words WordCounter) *HealthHandler {
	return &HealthHandler{words: words}
}

// Health handles GET /api/v1/health. Reports "degraded" with no words
// loaded, since no lobby can be created then.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := response.Health{Status: "ok"}
	if h.words != nil {
		resp.Words = h.words.WordCount()
		if resp.Words == 0 {
			resp.Status = "degraded"
		}
	}
	response.JSON(w, http.StatusOK, resp)
}
