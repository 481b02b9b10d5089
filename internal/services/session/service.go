package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mcoot/wordlobby/internal/dependencies/clock"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/storage"
)

// MaxNameLength is the longest display name kept, in characters
const MaxNameLength = 32

// Config holds configuration for the session store
type Config struct {
	// IdleTTL is how long an unaffiliated session may sit unused before
	// CleanExpired evicts it. Zero disables eviction.
	IdleTTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		IdleTTL: 24 * time.Hour,
	}
}

// Service is the session store: one record per known player handle.
// It does no locking of its own beyond what storage provides; callers
// serialise read-modify-write sequences.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	idleTTL time.Duration
}

// New creates a new session Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "session")),
		idleTTL: cfg.IdleTTL,
	}
}

// NewHandle generates a fresh random player handle
func NewHandle() model.PlayerID {
	return model.PlayerID(uuid.NewString())
}

// ParseHandle validates an inbound handle and returns it in canonical form.
// Anything that isn't a UUID is treated as no session.
func ParseHandle(raw string) (model.PlayerID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return model.PlayerID(id.String()), true
}

// InitPlayer inserts a fresh session for id. An existing record is
// replaced, so callers check IsValid first.
func (s *Service) InitPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error) {
	now := s.clock.Now()
	session := &model.PlayerSession{
		ID:         id,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("player session created", slog.String("player_id", string(id)))
	return session, nil
}

// IsValid reports whether a session exists for id
func (s *Service) IsValid(ctx context.Context, id model.PlayerID) bool {
	if id == "" {
		return false
	}
	ok, err := s.storage.SessionExists(ctx, id)
	if err != nil {
		s.logger.Error("session lookup failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return ok
}

// GetPlayer returns the session for id, or model.ErrPlayerNotFound
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error) {
	return s.storage.GetSession(ctx, id)
}

// GetPlayers loads sessions in the order given, skipping ids that no
// longer exist
func (s *Service) GetPlayers(ctx context.Context, ids []model.PlayerID) ([]*model.PlayerSession, error) {
	sessions := make([]*model.PlayerSession, 0, len(ids))
	for _, id := range ids {
		p, err := s.storage.GetSession(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, p)
	}
	return sessions, nil
}

// UpdatePlayer persists a modified session and refreshes its last-seen time
func (s *Service) UpdatePlayer(ctx context.Context, session *model.PlayerSession) error {
	session.LastSeenAt = s.clock.Now()
	return s.storage.SaveSession(ctx, session)
}

// Touch refreshes the last-seen time without other changes
func (s *Service) Touch(ctx context.Context, id model.PlayerID) error {
	session, err := s.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}
	return s.UpdatePlayer(ctx, session)
}

// SetName changes the display name. Surrounding whitespace is trimmed and
// long names are cut to MaxNameLength characters.
func (s *Service) SetName(ctx context.Context, id model.PlayerID, name string) (*model.PlayerSession, error) {
	session, err := s.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	session.Name = name

	if err := s.UpdatePlayer(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// HasLobby is true iff the player references a lobby that still exists.
// Unknown players and stale references both report false.
func (s *Service) HasLobby(ctx context.Context, id model.PlayerID) bool {
	session, err := s.storage.GetSession(ctx, id)
	if err != nil || session.LobbyID == nil {
		return false
	}
	exists, err := s.storage.LobbyExists(ctx, *session.LobbyID)
	if err != nil {
		s.logger.Error("lobby lookup failed",
			slog.String("lobby_id", string(*session.LobbyID)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return exists
}

// CleanExpired evicts sessions that are not in a live lobby and have been
// idle for longer than the configured TTL. Returns the number evicted.
func (s *Service) CleanExpired(ctx context.Context) (int, error) {
	if s.idleTTL <= 0 {
		return 0, nil
	}

	ids, err := s.storage.ListSessionIDs(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.clock.Now().Add(-s.idleTTL)
	removed := 0
	for _, id := range ids {
		session, err := s.storage.GetSession(ctx, id)
		if err != nil {
			continue
		}
		if !session.LastSeenAt.Before(cutoff) {
			continue
		}
		if session.LobbyID != nil && s.HasLobby(ctx, id) {
			continue
		}
		if err := s.storage.DeleteSession(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("expired sessions removed", slog.Int("removed", removed))
	}
	return removed, nil
}
