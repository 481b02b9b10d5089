package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/wordlobby/internal/api/sse"
	"github.com/mcoot/wordlobby/internal/config"
	"github.com/mcoot/wordlobby/internal/dependencies/clock"
	"github.com/mcoot/wordlobby/internal/dependencies/random"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/services/evaluator"
	"github.com/mcoot/wordlobby/internal/services/game"
	"github.com/mcoot/wordlobby/internal/services/lobby"
	"github.com/mcoot/wordlobby/internal/services/session"
	"github.com/mcoot/wordlobby/internal/services/win"
	"github.com/mcoot/wordlobby/internal/services/words"
	"github.com/mcoot/wordlobby/internal/storage"
	"github.com/mcoot/wordlobby/internal/storage/memory"
	redisstorage "github.com/mcoot/wordlobby/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	WordService    *words.Service
	SessionService *session.Service
	LobbyRegistry  *lobby.Registry
	Evaluator      *evaluator.Evaluator
	WinDetector    *win.Detector
	GameController *game.Controller
	HubManager     *sse.HubManager

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config

	// Game settings; zero values fall back to the service defaults
	WordLength            int
	EvaluatorPolicy       evaluator.Policy
	WinRule               win.Rule
	RequireDictionaryWord bool
	SessionIdleTTL        time.Duration
}

// ConfigFrom maps loaded server configuration onto factory settings
func ConfigFrom(c *config.Config, logger *slog.Logger) (Config, error) {
	policy, err := evaluator.ParsePolicy(c.Game.EvaluatorPolicy)
	if err != nil {
		return Config{}, err
	}
	rule, err := win.ParseRule(c.Game.WinRule)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Logger:                logger,
		StorageType:           c.Storage.Type,
		WordLength:            c.Game.WordLength,
		EvaluatorPolicy:       policy,
		WinRule:               rule,
		RequireDictionaryWord: c.Game.RequireDictionaryWord,
		SessionIdleTTL:        c.Game.SessionIdleTTL,
	}
	if c.Storage.Type == StorageTypeRedis {
		cfg.RedisConfig = &redisstorage.Config{
			URL:          c.Redis.URL,
			PoolSize:     c.Redis.PoolSize,
			MinIdleConns: c.Redis.MinIdleConns,
			SessionTTL:   c.Redis.SessionTTL,
			LobbyTTL:     c.Redis.LobbyTTL,
			ResultTTL:    c.Redis.ResultTTL,
		}
	}
	return cfg, nil
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	sessionCfg := session.DefaultConfig()
	if cfg.SessionIdleTTL != 0 {
		sessionCfg.IdleTTL = cfg.SessionIdleTTL
	}
	lobbyCfg := lobby.DefaultConfig()
	if cfg.WordLength != 0 {
		lobbyCfg.WordLength = cfg.WordLength
	}

	wordService := words.New(store, rnd, logger)
	sessionService := session.New(store, clk, sessionCfg, logger)
	lobbyRegistry := lobby.NewRegistry(store, wordService, clk, rnd, lobbyCfg, logger)
	eval := evaluator.New(cfg.EvaluatorPolicy)
	detector := win.New(cfg.WinRule)
	hubManager := sse.NewHubManager(logger)
	gameController := game.NewController(
		store,
		sessionService,
		lobbyRegistry,
		eval,
		detector,
		wordService,
		hubManager,
		clk,
		game.Config{RequireDictionaryWord: cfg.RequireDictionaryWord},
		logger,
	)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		WordService:    wordService,
		SessionService: sessionService,
		LobbyRegistry:  lobbyRegistry,
		Evaluator:      eval,
		WinDetector:    detector,
		GameController: gameController,
		HubManager:     hubManager,
		logger:         logger,
	}
}

// LoadWords fills the word list: from path when set, else from words a
// previous run saved to storage, else from the built-in list
func (a *App) LoadWords(ctx context.Context, path string) error {
	if path != "" {
		if err := a.WordService.LoadFromFile(ctx, path); err != nil {
			return fmt.Errorf("loading word file %s: %w", path, err)
		}
		return nil
	}

	if err := a.WordService.LoadFromStorage(ctx); err != nil && !errors.Is(err, model.ErrDictionaryNotLoaded) {
		return err
	}
	if a.WordService.WordCount() > 0 {
		return nil
	}
	return a.WordService.LoadDefaults(ctx)
}

// RunMaintenance periodically evicts idle sessions and drops SSE hubs
// nobody is watching, until ctx is cancelled
func (a *App) RunMaintenance(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.GameController.CleanExpired(ctx); err != nil {
				a.logger.Error("session cleanup failed", slog.String("error", err.Error()))
			}
			a.HubManager.CleanupEmptyHubs()
		}
	}
}

// Close releases the storage connection and disconnects SSE clients
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
