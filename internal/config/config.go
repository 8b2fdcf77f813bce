// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package config loads the application configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables, in increasing priority.
package config

import (
	"fmt"
	"time"

	"github.com/filmatlas/filmatlas/internal/validation"
)

// Config is the root application configuration.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the input chunks and the durable aggregates.
type DataConfig struct {
	// ChunksDir holds the sequence-numbered chunk files.
	ChunksDir string `koanf:"chunks_dir" validate:"required"`

	// CatalogPattern and RatingsPattern are the glob patterns for the
	// two chunk kinds inside ChunksDir.
	CatalogPattern string `koanf:"catalog_pattern" validate:"required"`
	RatingsPattern string `koanf:"ratings_pattern" validate:"required"`

	// StateDir holds the durable catalog index and rating aggregate.
	StateDir string `koanf:"state_dir" validate:"required"`
}

// ArtifactsConfig controls the generated recommendation files.
type ArtifactsConfig struct {
	// Dir is where recommendation files and the manifest are written.
	Dir string `koanf:"dir" validate:"required"`

	// TopN caps each generated file's ranked list.
	TopN int `koanf:"top_n" validate:"gte=1"`
}

// ServerConfig controls the HTTP matcher API.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`

	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, applied before the config
// file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			ChunksDir:      "data/chunks",
			CatalogPattern: "movies_*.json",
			RatingsPattern: "user_ratings_*.json",
			StateDir:       "data/state",
		},
		Artifacts: ArtifactsConfig{
			Dir:  "data/recommendations",
			TopN: 20,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8470,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration after all layers are applied.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}
	return nil
}
