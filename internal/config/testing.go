package config

import (
	"fmt"

	"github.com/rezkam/quadrant/internal/env"
)

// TestConfig holds the optional endpoints used by storage integration tests.
// Tests skip a backend whose endpoint is empty.
type TestConfig struct {
	PostgresDSN string `env:"TEST_POSTGRES_DSN"`
	RedisURL    string `env:"TEST_REDIS_URL"`
	GCSBucket   string `env:"TEST_GCS_BUCKET"`
}

// LoadTestConfig loads test configuration from environment.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}
