package storage

import (
	"context"

	"github.com/mcoot/wordlobby/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations hand out copies: a mutated value is only visible to
// other callers after it has been saved again.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.PlayerSession) error
	GetSession(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error)
	DeleteSession(ctx context.Context, id model.PlayerID) error
	SessionExists(ctx context.Context, id model.PlayerID) (bool, error)
	ListSessionIDs(ctx context.Context) ([]model.PlayerID, error)

	// Lobby operations
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error)
	DeleteLobby(ctx context.Context, id model.LobbyID) error
	LobbyExists(ctx context.Context, id model.LobbyID) (bool, error)

	// Result operations
	SaveResult(ctx context.Context, result *model.GameResult) error
	GetResult(ctx context.Context, lobbyID model.LobbyID) (*model.GameResult, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
