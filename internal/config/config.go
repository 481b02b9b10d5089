// Package config loads server settings from defaults, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mcoot/wordlobby/internal/services/evaluator"
	"github.com/mcoot/wordlobby/internal/services/win"
)

// EnvPrefix prefixes every environment override, e.g. WORDLOBBY_SERVER_PORT
const EnvPrefix = "WORDLOBBY"

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Game    GameConfig    `mapstructure:"game"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Type string `mapstructure:"type"` // memory or redis
}

// RedisConfig holds Redis backend settings
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	LobbyTTL     time.Duration `mapstructure:"lobby_ttl"`
	ResultTTL    time.Duration `mapstructure:"result_ttl"`
}

// GameConfig holds gameplay settings
type GameConfig struct {
	// WordFile is a newline-separated word list; empty uses the built-in list
	WordFile              string        `mapstructure:"word_file"`
	WordLength            int           `mapstructure:"word_length"`
	EvaluatorPolicy       string        `mapstructure:"evaluator_policy"`
	WinRule               string        `mapstructure:"win_rule"`
	RequireDictionaryWord bool          `mapstructure:"require_dictionary_word"`
	SessionIdleTTL        time.Duration `mapstructure:"session_idle_ttl"`
	CleanupInterval       time.Duration `mapstructure:"cleanup_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("storage.type", "memory")

	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.session_ttl", "24h")
	v.SetDefault("redis.lobby_ttl", "24h")
	v.SetDefault("redis.result_ttl", "168h")

	v.SetDefault("game.word_file", "")
	v.SetDefault("game.word_length", 5)
	v.SetDefault("game.evaluator_policy", string(evaluator.PolicyCharacterSet))
	v.SetDefault("game.win_rule", string(win.RuleLatestGuess))
	v.SetDefault("game.require_dictionary_word", false)
	v.SetDefault("game.session_idle_ttl", "24h")
	v.SetDefault("game.cleanup_interval", "10m")
}

// Load reads configuration. A non-empty path must exist; with an empty path
// wordlobby.yaml is looked for in the working directory and /etc/wordlobby.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names kept for container platforms
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("storage.type", EnvPrefix+"_STORAGE_TYPE", "STORAGE_TYPE")
	_ = v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("wordlobby")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/wordlobby")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Type {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required when storage.type is redis")
		}
	default:
		return fmt.Errorf("storage.type must be memory or redis, got %q", c.Storage.Type)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if c.Game.WordLength < 0 {
		return fmt.Errorf("game.word_length must not be negative")
	}
	if _, err := evaluator.ParsePolicy(c.Game.EvaluatorPolicy); err != nil {
		return err
	}
	if _, err := win.ParseRule(c.Game.WinRule); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
