package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/wordlobby/internal/dependencies/clock"
	"github.com/mcoot/wordlobby/internal/dependencies/random"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/storage"
)

const (
	// LobbyCodeLength is the length of generated lobby codes
	LobbyCodeLength = 6
	// LobbyCodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	LobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// MaxLobbyIDLength bounds caller-chosen lobby ids
	MaxLobbyIDLength = 64

	maxCodeAttempts = 16
)

// WordSource supplies secret words for new lobbies
type WordSource interface {
	RandomWord(length int) (string, error)
}

// Config holds configuration for the lobby registry
type Config struct {
	// WordLength is the secret word length in characters; 0 allows any length
	WordLength int
}

// DefaultConfig returns default registry configuration
func DefaultConfig() Config {
	return Config{WordLength: 5}
}

// Registry owns lobbies and the membership mapping in both directions:
// a session's LobbyID and the lobby's Members list are always changed together.
type Registry struct {
	storage    storage.Storage
	words      WordSource
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	wordLength int
}

// NewRegistry creates a new lobby Registry
func NewRegistry(
	storage storage.Storage,
	words WordSource,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage:    storage,
		words:      words,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "lobby")),
		wordLength: cfg.WordLength,
	}
}

// NormalizeID trims a caller-supplied lobby id and checks it is usable as a
// path segment. Lobby ids are case-sensitive.
func NormalizeID(raw string) (model.LobbyID, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > MaxLobbyIDLength || strings.ContainsAny(id, "/?# \t\r\n") {
		return "", model.ErrInvalidLobby
	}
	return model.LobbyID(id), nil
}

// CreateLobby installs a lobby with a fresh secret word. An empty id gets a
// generated code. An existing lobby with the same id is replaced after its
// members are detached. If owner is set it must be a valid session and is
// moved into the new lobby.
func (r *Registry) CreateLobby(ctx context.Context, id model.LobbyID, owner model.PlayerID) (*model.Lobby, error) {
	if owner != "" {
		exists, err := r.storage.SessionExists(ctx, owner)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrPlayerNotFound
		}
	}

	if id == "" {
		code, err := r.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		id = code
	} else {
		normalized, err := NormalizeID(string(id))
		if err != nil {
			return nil, err
		}
		id = normalized
	}

	word, err := r.words.RandomWord(r.wordLength)
	if err != nil {
		return nil, fmt.Errorf("choosing secret word: %w", err)
	}

	existing, err := r.storage.GetLobby(ctx, id)
	switch {
	case err == nil:
		r.logger.Warn("replacing existing lobby", slog.String("lobby_id", string(id)))
		if err := r.detachAll(ctx, existing); err != nil {
			return nil, err
		}
	case !errors.Is(err, model.ErrLobbyNotFound):
		return nil, err
	}

	now := r.clock.Now()
	lobby := &model.Lobby{
		ID:         id,
		GameID:     uuid.NewString(),
		SecretWord: word,
		Members:    []model.PlayerID{},
		OwnerID:    owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if owner != "" {
		ownerSession, err := r.storage.GetSession(ctx, owner)
		if err != nil {
			return nil, err
		}
		if err := r.detach(ctx, ownerSession); err != nil {
			return nil, err
		}
		lobby.AddMember(owner)
		ownerSession.LobbyID = &lobby.ID
		ownerSession.IsOwner = true
		ownerSession.LastSeenAt = now
		if err := r.storage.SaveSession(ctx, ownerSession); err != nil {
			return nil, err
		}
	}

	if err := r.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	r.logger.Info("lobby created",
		slog.String("lobby_id", string(id)),
		slog.String("owner_id", string(owner)),
	)
	return lobby, nil
}

func (r *Registry) generateCode(ctx context.Context) (model.LobbyID, error) {
	for range maxCodeAttempts {
		code := model.LobbyID(r.random.String(LobbyCodeLength, LobbyCodeAlphabet))
		if code == "" {
			continue
		}
		exists, err := r.storage.LobbyExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free lobby code after %d attempts", maxCodeAttempts)
}

// DoesLobbyExist reports whether a lobby is registered under id
func (r *Registry) DoesLobbyExist(ctx context.Context, id model.LobbyID) bool {
	exists, err := r.storage.LobbyExists(ctx, id)
	if err != nil {
		r.logger.Error("lobby lookup failed",
			slog.String("lobby_id", string(id)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return exists
}

// GetLobby retrieves a lobby by id
func (r *Registry) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	return r.storage.GetLobby(ctx, id)
}

// JoinLobby attaches a player to a lobby. A player already in another lobby
// is moved; joining the lobby they are already in does nothing. A failed
// join leaves the session untouched.
func (r *Registry) JoinLobby(ctx context.Context, playerID model.PlayerID, lobbyID model.LobbyID) error {
	session, err := r.storage.GetSession(ctx, playerID)
	if err != nil {
		return err
	}
	lobby, err := r.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}

	if session.InLobby(lobbyID) && lobby.HasMember(playerID) {
		return nil
	}
	if lobby.Started {
		return model.ErrLobbyStarted
	}

	if err := r.detach(ctx, session); err != nil {
		return err
	}

	now := r.clock.Now()
	lobby.AddMember(playerID)
	lobby.UpdatedAt = now
	if err := r.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	session.LobbyID = &lobby.ID
	session.IsOwner = lobby.OwnerID == playerID
	session.LastSeenAt = now
	if err := r.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	r.logger.Info("player joined lobby",
		slog.String("player_id", string(playerID)),
		slog.String("lobby_id", string(lobbyID)),
		slog.Int("members", len(lobby.Members)),
	)
	return nil
}

// LeaveLobby detaches a player from whatever lobby they are in
func (r *Registry) LeaveLobby(ctx context.Context, playerID model.PlayerID) (model.LobbyID, error) {
	session, err := r.storage.GetSession(ctx, playerID)
	if err != nil {
		return "", err
	}
	if session.LobbyID == nil {
		return "", model.ErrNoLobby
	}
	left := *session.LobbyID

	if err := r.detach(ctx, session); err != nil {
		return "", err
	}
	session.LastSeenAt = r.clock.Now()
	if err := r.storage.SaveSession(ctx, session); err != nil {
		return "", err
	}

	r.logger.Info("player left lobby",
		slog.String("player_id", string(playerID)),
		slog.String("lobby_id", string(left)),
	)
	return left, nil
}

// MarkStarted flags the lobby as started. Already-started lobbies are left alone.
func (r *Registry) MarkStarted(ctx context.Context, lobby *model.Lobby) error {
	if lobby.Started {
		return nil
	}
	lobby.Started = true
	lobby.UpdatedAt = r.clock.Now()
	return r.storage.SaveLobby(ctx, lobby)
}

// EndGame tears down a lobby. Every member and every other session still
// pointing at the lobby has its reference cleared, then the lobby is removed.
func (r *Registry) EndGame(ctx context.Context, lobbyID model.LobbyID) error {
	lobby, err := r.storage.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}

	lobby.Ended = true
	lobby.UpdatedAt = r.clock.Now()
	if err := r.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	if err := r.detachAll(ctx, lobby); err != nil {
		return err
	}
	if err := r.storage.DeleteLobby(ctx, lobbyID); err != nil {
		return err
	}

	r.logger.Info("lobby ended", slog.String("lobby_id", string(lobbyID)))
	return nil
}

// detach removes the session from its current lobby's member list and clears
// the reference. The session itself is not saved.
func (r *Registry) detach(ctx context.Context, session *model.PlayerSession) error {
	if session.LobbyID == nil {
		return nil
	}
	current, err := r.storage.GetLobby(ctx, *session.LobbyID)
	switch {
	case err == nil:
		if current.RemoveMember(session.ID) {
			current.UpdatedAt = r.clock.Now()
			if err := r.storage.SaveLobby(ctx, current); err != nil {
				return err
			}
		}
	case !errors.Is(err, model.ErrLobbyNotFound):
		return err
	}
	session.LobbyID = nil
	session.IsOwner = false
	return nil
}

// detachAll clears the lobby reference of every session pointing at the
// lobby, whether or not it made it into the member list. Members already
// pointing elsewhere are left alone.
func (r *Registry) detachAll(ctx context.Context, lobby *model.Lobby) error {
	ids, err := r.storage.ListSessionIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		session, err := r.storage.GetSession(ctx, id)
		if err != nil {
			continue
		}
		if !session.InLobby(lobby.ID) {
			continue
		}
		session.LobbyID = nil
		session.IsOwner = false
		if err := r.storage.SaveSession(ctx, session); err != nil {
			return err
		}
	}

	lobby.Members = []model.PlayerID{}
	return nil
}

// RegistryInterface is implemented by Registry
type RegistryInterface interface {
	CreateLobby(ctx context.Context, id model.LobbyID, owner model.PlayerID) (*model.Lobby, error)
	DoesLobbyExist(ctx context.Context, id model.LobbyID) bool
	GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error)
	JoinLobby(ctx context.Context, playerID model.PlayerID, lobbyID model.LobbyID) error
	LeaveLobby(ctx context.Context, playerID model.PlayerID) (model.LobbyID, error)
	MarkStarted(ctx context.Context, lobby *model.Lobby) error
	EndGame(ctx context.Context, lobbyID model.LobbyID) error
}

var _ RegistryInterface = (*Registry)(nil)
