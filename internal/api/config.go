package api

import (
	"fmt"
	"time"
)

// Config holds server configuration.
type Config struct {
	Port              int
	AllowedOrigins    []string      // CORS and websocket origins (empty = allow all)
	RateLimitRequests int           // requests per minute (0 = disabled)
	RateLimitBurst    int           // burst size
	FeedInterval      time.Duration // random passage push interval for /ws/random
	Auth              AuthConfig
	TLS               TLSConfig
	Version           string
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) withDefaults() Config {
	if c.FeedInterval <= 0 {
		c.FeedInterval = 30 * time.Second
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	return c
}
