package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordlobby/internal/api/handler"
	"github.com/mcoot/wordlobby/internal/api/middleware"
	"github.com/mcoot/wordlobby/internal/api/sse"
	commonmw "github.com/mcoot/wordlobby/internal/middleware"
	"github.com/mcoot/wordlobby/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	Words          handler.WordCounter
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(commonmw.RequestID)

	playerHandler := handler.NewPlayerHandler(cfg.GameController)
	lobbyHandler := handler.NewLobbyHandler(cfg.GameController, cfg.HubManager)
	guessHandler := handler.NewGuessHandler(cfg.GameController)
	legacyHandler := handler.NewLegacyHandler(cfg.GameController)
	healthHandler := handler.NewHealthHandler(cfg.Words)

	sessionMiddleware := middleware.Session(cfg.GameController)
	loggingMiddleware := commonmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Legacy routes: each reports panics the way it reports any other failure
	legacy := func(h http.HandlerFunc, failure func(http.ResponseWriter, *http.Request)) http.Handler {
		return loggingMiddleware(middleware.LegacyRecovery(cfg.Logger, failure)(h))
	}
	r.Handle("/init", legacy(legacyHandler.Init, legacyInitFailure)).Methods(http.MethodGet)
	r.Handle("/join/{lobby_id}", legacy(legacyHandler.Join, handler.JoinFailure)).Methods(http.MethodGet)
	r.Handle("/submit/{guess}", legacy(legacyHandler.Submit, handler.SubmitFailure)).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(sessionMiddleware)

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Init).Methods(http.MethodPost)

	// Watching a lobby needs no session
	api.HandleFunc("/lobbies/{id}", lobbyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}/results", lobbyHandler.Results).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}/events", lobbyHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}/ws", lobbyHandler.Socket).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}/qr", lobbyHandler.QRCode).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{id}/enter", lobbyHandler.Enter).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession)
	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/players/me", playerHandler.UpdateMe).Methods(http.MethodPatch)
	protected.HandleFunc("/players/me/guesses", playerHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/lobbies", lobbyHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	protected.HandleFunc("/lobbies/{id}/join", lobbyHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/guesses", guessHandler.Submit).Methods(http.MethodPost)

	return r
}

func legacyInitFailure(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
