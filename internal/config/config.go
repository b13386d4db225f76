package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration, loaded from environment variables.
// Command-line flags may override individual values.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"DB_PATH" envDefault:"inventory.sqlite3"`

	// JWTSecret signs authentication tokens. If empty, a secret is generated
	// on first run and persisted in the database.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of issued authentication tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// LogPath is an optional log file the structured logs are also written to.
	LogPath string `env:"LOG_PATH"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
