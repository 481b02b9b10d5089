package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/wordlobby/internal/dependencies/clock"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/services/evaluator"
	"github.com/mcoot/wordlobby/internal/services/lobby"
	"github.com/mcoot/wordlobby/internal/services/session"
	"github.com/mcoot/wordlobby/internal/services/win"
	"github.com/mcoot/wordlobby/internal/storage"
)

// EventPublisher receives lobby events as they happen. CloseLobby ends the
// stream for a lobby that has been torn down or replaced.
type EventPublisher interface {
	Publish(event model.Event)
	CloseLobby(lobbyID model.LobbyID)
}

// Dictionary validates guesses when dictionary checking is enabled
type Dictionary interface {
	IsValidWord(word string) bool
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}

func (nopPublisher) CloseLobby(model.LobbyID) {}

// Config holds configuration for the game controller
type Config struct {
	// RequireDictionaryWord rejects guesses that are not in the word list
	RequireDictionaryWord bool
}

// MoveResult is what a submitted guess produced
type MoveResult struct {
	Guess  model.WordGuess
	Winner *model.PlayerSession // nil if nobody has won yet
}

// Controller drives the game lifecycle. Every public method takes the
// controller's lock for its whole duration, so actions never interleave.
type Controller struct {
	mu sync.Mutex

	storage    storage.Storage
	sessions   *session.Service
	lobbies    *lobby.Registry
	evaluator  *evaluator.Evaluator
	detector   *win.Detector
	dictionary Dictionary
	events     EventPublisher
	clock      clock.Clock
	logger     *slog.Logger

	requireDictionaryWord bool
}

// NewController creates a new game Controller. A nil publisher drops events.
func NewController(
	storage storage.Storage,
	sessions *session.Service,
	lobbies *lobby.Registry,
	evaluator *evaluator.Evaluator,
	detector *win.Detector,
	dictionary Dictionary,
	events EventPublisher,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if events == nil {
		events = nopPublisher{}
	}
	return &Controller{
		storage:               storage,
		sessions:              sessions,
		lobbies:               lobbies,
		evaluator:             evaluator,
		detector:              detector,
		dictionary:            dictionary,
		events:                events,
		clock:                 clock,
		logger:                logger.With(slog.String("component", "game")),
		requireDictionaryWord: cfg.RequireDictionaryWord,
	}
}

// InitPlayer returns existing if it names a valid session, otherwise creates
// a session under a fresh handle. The bool is true when a session was created.
func (c *Controller) InitPlayer(ctx context.Context, existing model.PlayerID) (model.PlayerID, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing != "" && c.sessions.IsValid(ctx, existing) {
		if err := c.sessions.Touch(ctx, existing); err != nil {
			return "", false, err
		}
		return existing, false, nil
	}

	id := session.NewHandle()
	if _, err := c.sessions.InitPlayer(ctx, id); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// IsValidPlayer reports whether id names a known session
func (c *Controller) IsValidPlayer(ctx context.Context, id model.PlayerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.IsValid(ctx, id)
}

// GetPlayer returns the session for id
func (c *Controller) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.GetPlayer(ctx, id)
}

// SetName changes a player's display name
func (c *Controller) SetName(ctx context.Context, id model.PlayerID, name string) (*model.PlayerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.SetName(ctx, id, name)
}

// CreateLobby creates a lobby. A non-empty owner is moved into it.
func (c *Controller) CreateLobby(ctx context.Context, id model.LobbyID, owner model.PlayerID) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// watchers of a replaced lobby belong to the old game
	if id != "" {
		if normalized, err := lobby.NormalizeID(string(id)); err == nil && c.lobbies.DoesLobbyExist(ctx, normalized) {
			c.events.CloseLobby(normalized)
		}
	}
	return c.lobbies.CreateLobby(ctx, id, owner)
}

// GetLobby returns a lobby by id
func (c *Controller) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobbies.GetLobby(ctx, id)
}

// LobbyMembers returns the sessions of a lobby's members in join order
func (c *Controller) LobbyMembers(ctx context.Context, id model.LobbyID) ([]*model.PlayerSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, err := c.lobbies.GetLobby(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.sessions.GetPlayers(ctx, l.Members)
}

// JoinLobby attaches a player to a lobby and announces it
func (c *Controller) JoinLobby(ctx context.Context, playerID model.PlayerID, lobbyID model.LobbyID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lobbies.JoinLobby(ctx, playerID, lobbyID); err != nil {
		c.logger.Debug("join rejected",
			slog.String("player_id", string(playerID)),
			slog.String("lobby_id", string(lobbyID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	l, err := c.lobbies.GetLobby(ctx, lobbyID)
	if err != nil {
		return err
	}
	p, err := c.sessions.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	c.publish(model.EventPlayerJoined, lobbyID, playerID, model.PlayerJoinedPayload{
		DisplayName: p.DisplayName(),
		MemberCount: len(l.Members),
	})
	return nil
}

// LeaveLobby detaches a player from their lobby
func (c *Controller) LeaveLobby(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	left, err := c.lobbies.LeaveLobby(ctx, playerID)
	if err != nil {
		return err
	}
	p, err := c.sessions.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	c.publish(model.EventPlayerLeft, left, playerID, model.PlayerLeftPayload{
		DisplayName: p.DisplayName(),
	})
	return nil
}

// SubmitMove evaluates a guess against the player's lobby, records it, and
// ends the game if any member has now won. A rejected guess records nothing.
func (c *Controller) SubmitMove(ctx context.Context, playerID model.PlayerID, guess string) (*MoveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.sessions.HasLobby(ctx, playerID) {
		return nil, model.ErrNoLobby
	}
	player, err := c.sessions.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	current, err := c.lobbies.GetLobby(ctx, *player.LobbyID)
	if err != nil {
		return nil, err
	}

	guess = strings.TrimSpace(guess)
	if c.requireDictionaryWord && c.dictionary != nil && !c.dictionary.IsValidWord(guess) {
		return nil, model.ErrNotInDictionary
	}

	colors, err := c.evaluator.Evaluate(current.SecretWord, guess)
	if err != nil {
		return nil, err
	}

	wg := model.WordGuess{
		Word:        guess,
		Colors:      colors,
		LobbyID:     current.ID,
		GameID:      current.GameID,
		SubmittedAt: c.clock.Now(),
	}
	player.Guesses = append(player.Guesses, wg)
	if err := c.sessions.UpdatePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := c.lobbies.MarkStarted(ctx, current); err != nil {
		return nil, err
	}

	c.logger.Info("guess submitted",
		slog.String("player_id", string(playerID)),
		slog.String("lobby_id", string(current.ID)),
		slog.Int("guess_count", len(player.Guesses)),
	)

	c.publish(model.EventGuessSubmitted, current.ID, playerID, model.GuessSubmittedPayload{
		DisplayName: player.DisplayName(),
		Colors:      colors,
		GuessCount:  len(player.ForGame(current).Guesses),
	})

	members, err := c.sessions.GetPlayers(ctx, current.Members)
	if err != nil {
		return nil, err
	}
	for i, m := range members {
		members[i] = m.ForGame(current)
	}
	winner := c.detector.FirstWinner(members)
	if winner == nil {
		return &MoveResult{Guess: wg}, nil
	}

	if err := c.finish(ctx, current, winner); err != nil {
		return nil, err
	}
	return &MoveResult{Guess: wg, Winner: winner}, nil
}

// finish records the result, announces the winner and tears the lobby down
func (c *Controller) finish(ctx context.Context, l *model.Lobby, winner *model.PlayerSession) error {
	result := &model.GameResult{
		LobbyID:    l.ID,
		WinnerID:   winner.ID,
		WinnerName: winner.DisplayName(),
		SecretWord: l.SecretWord,
		Guesses:    len(winner.Guesses),
		EndedAt:    c.clock.Now(),
	}
	if err := c.storage.SaveResult(ctx, result); err != nil {
		c.logger.Error("failed to save game result",
			slog.String("lobby_id", string(l.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.publish(model.EventGameWon, l.ID, winner.ID, model.GameWonPayload{
		WinnerName: result.WinnerName,
		SecretWord: l.SecretWord,
	})

	if err := c.lobbies.EndGame(ctx, l.ID); err != nil {
		return err
	}
	c.events.CloseLobby(l.ID)

	c.logger.Info("game won",
		slog.String("lobby_id", string(l.ID)),
		slog.String("winner_id", string(winner.ID)),
		slog.Int("guesses", result.Guesses),
	)
	return nil
}

// History returns the player's guesses, oldest first
func (c *Controller) History(ctx context.Context, playerID model.PlayerID) ([]model.WordGuess, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.sessions.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return p.Guesses, nil
}

// Results returns the recorded outcome of a finished lobby
func (c *Controller) Results(ctx context.Context, lobbyID model.LobbyID) (*model.GameResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.GetResult(ctx, lobbyID)
}

// CleanExpired evicts idle sessions that are not in a lobby
func (c *Controller) CleanExpired(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions.CleanExpired(ctx)
}

func (c *Controller) publish(t model.EventType, lobbyID model.LobbyID, playerID model.PlayerID, payload any) {
	c.events.Publish(model.Event{
		Type:      t,
		Timestamp: c.clock.Now(),
		LobbyID:   lobbyID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

// IsInvalidMove reports whether err is a guess the player can correct,
// as opposed to a server fault
func IsInvalidMove(err error) bool {
	return errors.Is(err, model.ErrNoLobby) ||
		errors.Is(err, model.ErrLengthMismatch) ||
		errors.Is(err, model.ErrEmptyGuess) ||
		errors.Is(err, model.ErrNotInDictionary)
}

// ControllerInterface is implemented by Controller
type ControllerInterface interface {
	InitPlayer(ctx context.Context, existing model.PlayerID) (model.PlayerID, bool, error)
	IsValidPlayer(ctx context.Context, id model.PlayerID) bool
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error)
	SetName(ctx context.Context, id model.PlayerID, name string) (*model.PlayerSession, error)
	CreateLobby(ctx context.Context, id model.LobbyID, owner model.PlayerID) (*model.Lobby, error)
	GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error)
	LobbyMembers(ctx context.Context, id model.LobbyID) ([]*model.PlayerSession, error)
	JoinLobby(ctx context.Context, playerID model.PlayerID, lobbyID model.LobbyID) error
	LeaveLobby(ctx context.Context, playerID model.PlayerID) error
	SubmitMove(ctx context.Context, playerID model.PlayerID, guess string) (*MoveResult, error)
	History(ctx context.Context, playerID model.PlayerID) ([]model.WordGuess, error)
	Results(ctx context.Context, lobbyID model.LobbyID) (*model.GameResult, error)
	CleanExpired(ctx context.Context) (int, error)
}

var _ ControllerInterface = (*Controller)(nil)
