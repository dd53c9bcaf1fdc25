// Package config loads the quadrant configuration from the environment and
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rezkam/quadrant/internal/env"
)

// Config holds the configuration shared by the CLI, the API server and the
// reminder worker.
type Config struct {
	Storage       StorageConfig
	Observability ObservabilityConfig
	Reminder      ReminderConfig
	HTTP          HTTPConfig
}

// Load reads the given .env files (".env" when none are named) into the
// process environment without overriding variables that are already set,
// then parses and validates Config. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if err := loadDotEnv(files...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
	}
	return nil
}
