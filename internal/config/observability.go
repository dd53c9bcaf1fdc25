package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// ObservabilityConfig holds logging and OpenTelemetry configuration.
// Exporter endpoints and headers come from the standard OTEL_EXPORTER_OTLP_*
// variables read by the exporters themselves.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"QUADRANT_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"quadrant"`
	LogLevel    string `env:"QUADRANT_LOG_LEVEL" default:"info"`
}

// Validate rejects unknown log levels.
func (c *ObservabilityConfig) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *ObservabilityConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid QUADRANT_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
