// Package config provides configuration management for the interview server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the server
type Config struct {
	AnthropicAPIKey   string
	AnthropicModel    string
	ListenAddr        string
	RedisAddr         string // Empty means an in-memory document store
	HistoryCap        int
	CompletionTimeout time.Duration
	SessionIdleTTL    time.Duration // 0 disables idle-session eviction
	OTLPEndpoint      string        // Empty disables tracing
}

// Load loads configuration from environment variables
func Load() Config {
	config := Config{
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    os.Getenv("ANTHROPIC_MODEL"),
		ListenAddr:        ":8080", // Default
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		HistoryCap:        10,               // Default
		CompletionTimeout: 60 * time.Second, // Default
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		config.ListenAddr = addr
	}

	// Parse overrides if provided
	if cap := os.Getenv("HISTORY_CAP"); cap != "" {
		if n, err := strconv.Atoi(cap); err == nil {
			config.HistoryCap = n
		}
	}
	if timeout := os.Getenv("COMPLETION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.CompletionTimeout = d
		}
	}
	if ttl := os.Getenv("SESSION_IDLE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.SessionIdleTTL = d
		}
	}

	return config
}

// Validate checks if the required configuration is present
func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
	}
	if c.HistoryCap < 1 {
		return fmt.Errorf("HISTORY_CAP must be at least 1, got %d", c.HistoryCap)
	}
	return nil
}
