package config

import (
	"errors"
	"time"
)

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"QUADRANT_HTTP_HOST"`
	Port              string        `env:"QUADRANT_HTTP_PORT" default:"8081"`
	ReadTimeout       time.Duration `env:"QUADRANT_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `env:"QUADRANT_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `env:"QUADRANT_HTTP_IDLE_TIMEOUT" default:"60s"`
	ReadHeaderTimeout time.Duration `env:"QUADRANT_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	MaxHeaderBytes    int           `env:"QUADRANT_HTTP_MAX_HEADER_BYTES" default:"1048576"`
	MaxBodyBytes      int64         `env:"QUADRANT_HTTP_MAX_BODY_BYTES" default:"1048576"`
	ShutdownTimeout   time.Duration `env:"QUADRANT_SHUTDOWN_TIMEOUT" default:"10s"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"QUADRANT_TLS_ENABLED"`
	TLSCertFile string `env:"QUADRANT_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"QUADRANT_TLS_KEY_FILE"`
}

// Validate checks the TLS settings.
func (c *HTTPConfig) Validate() error {
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("QUADRANT_TLS_CERT_FILE and QUADRANT_TLS_KEY_FILE are required when TLS is enabled")
	}
	return nil
}
