// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles settings for the migration tooling.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (runner, lock, server) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/microblog/internal/platform/constants"
)

// ErrNoDatabase is returned by [Config.RequireDatabase] when DATABASE_URL is unset.
var ErrNoDatabase = errors.New("config: DATABASE_URL is required for this command")

// # Configuration Schema

// Config holds all runtime configuration for the migrate command.
type Config struct {

	// Server settings (status API)
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Logging: "json" for services, "text" for a terminal
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Relational Database (postgres://, pgx5:// or sqlite3://).
	// Not required by every command, see RequireDatabase.
	DatabaseURL string `env:"DATABASE_URL"`

	// Key-Value store used for the migration lock; empty disables locking.
	RedisURL string `env:"REDIS_URL"`

	// Migration lock
	LockKey string        `env:"MIGRATION_LOCK_KEY" envDefault:"migrate:lock"`
	LockTTL time.Duration `env:"MIGRATION_LOCK_TTL" envDefault:"5m"`

	// VersionsDir is where "migrate new" writes revision files.
	VersionsDir string `env:"VERSIONS_DIR" envDefault:"./internal/migrations"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("config: LOG_FORMAT must be \"json\" or \"text\", got %q", cfg.LogFormat)
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = constants.DefaultLockTTL
	}

	return cfg, nil
}

// RequireDatabase fails when no database is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrNoDatabase
	}
	return nil
}

// HasRedis reports whether the migration lock is backed by Redis.
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}
