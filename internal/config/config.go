package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config holds all application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Player PlayerConfig
	Fetch  FetchConfig
	Log    LogConfig
}

// DBConfig holds database configuration
type DBConfig struct {
	Path        string        `envconfig:"DB_PATH" default:"youtube_videos.db"`
	BusyTimeout time.Duration `envconfig:"DB_BUSY_TIMEOUT" default:"5s"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"127.0.0.1"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// PlayerConfig controls whether played videos are opened locally
type PlayerConfig struct {
	Open bool `envconfig:"PLAYER_OPEN" default:"true"`
}

// FetchConfig holds configuration for page metadata lookups
type FetchConfig struct {
	Timeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	RateLimit  float64       `envconfig:"FETCH_RATE_LIMIT" default:"1"`
	MaxRetries int           `envconfig:"FETCH_MAX_RETRIES" default:"2"`
	UserAgent  string        `envconfig:"FETCH_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// DSN returns the SQLite data source name.
// _cslike makes LIKE case-sensitive for the search operation.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s?_cslike=1&_busy_timeout=%d", c.Path, c.BusyTimeout.Milliseconds())
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from an optional .env file and environment variables.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var cfg Config

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Player); err != nil {
		return nil, fmt.Errorf("failed to load player config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Fetch); err != nil {
		return nil, fmt.Errorf("failed to load fetch config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.DB.BusyTimeout < 0 {
		return fmt.Errorf("DB_BUSY_TIMEOUT must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Fetch.RateLimit <= 0 {
		return fmt.Errorf("FETCH_RATE_LIMIT must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES must not be negative")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return nil
}

// ZerologLevel returns the configured log level, falling back to info
func (c *LogConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
