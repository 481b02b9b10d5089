package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/storage"
)

// scanBatch is the COUNT hint passed to SCAN
const scanBatch = 100

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// setJSON marshals v and stores it under key with the given TTL
func (s *Storage) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// getJSON loads key into v, returning notFound when the key is missing
func (s *Storage) getJSON(ctx context.Context, key string, v any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Storage) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlayerSession) error {
	return s.setJSON(ctx, sessionKey(session.ID), session, s.cfg.SessionTTL)
}

func (s *Storage) GetSession(ctx context.Context, id model.PlayerID) (*model.PlayerSession, error) {
	var session model.PlayerSession
	if err := s.getJSON(ctx, sessionKey(id), &session, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func (s *Storage) SessionExists(ctx context.Context, id model.PlayerID) (bool, error) {
	return s.exists(ctx, sessionKey(id))
}

func (s *Storage) ListSessionIDs(ctx context.Context) ([]model.PlayerID, error) {
	var ids []model.PlayerID
	iter := s.client.Scan(ctx, 0, sessionKeyPattern(), scanBatch).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, sessionIDFromKey(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	// SCAN may return a key more than once
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	return s.setJSON(ctx, lobbyKey(lobby.ID), lobby, s.cfg.LobbyTTL)
}

func (s *Storage) GetLobby(ctx context.Context, id model.LobbyID) (*model.Lobby, error) {
	var lobby model.Lobby
	if err := s.getJSON(ctx, lobbyKey(id), &lobby, model.ErrLobbyNotFound); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (s *Storage) DeleteLobby(ctx context.Context, id model.LobbyID) error {
	return s.client.Del(ctx, lobbyKey(id)).Err()
}

func (s *Storage) LobbyExists(ctx context.Context, id model.LobbyID) (bool, error) {
	return s.exists(ctx, lobbyKey(id))
}

// Result operations

func (s *Storage) SaveResult(ctx context.Context, result *model.GameResult) error {
	return s.setJSON(ctx, resultKey(result.LobbyID), result, s.cfg.ResultTTL)
}

func (s *Storage) GetResult(ctx context.Context, lobbyID model.LobbyID) (*model.GameResult, error) {
	var result model.GameResult
	if err := s.getJSON(ctx, resultKey(lobbyID), &result, model.ErrResultNotFound); err != nil {
		return nil, err
	}
	return &result, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.LRange(ctx, key, 0, -1).Result()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	// Replace the existing list atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		members := make([]any, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.RPush(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
