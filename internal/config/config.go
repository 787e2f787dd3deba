// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds the environment-driven settings for the HTTP server
// and its backing services. REDIS_URL is optional; when empty the analysis
// cache is disabled and every AI call goes to the service.
type ServerConfig struct {
	Port        string
	DatabaseURL string
	AIBaseURL   string
	RedisURL    string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int
}

// NewServerConfig creates a server configuration from environment variables.
// It reads DATABASE_URL and RESUME_AI_URL (required), PORT (default: 8080),
// REDIS_URL (optional), RATE_LIMIT_PER_MINUTE (default: 60) and
// RATE_LIMIT_BURST (default: 10).
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	aiBaseURL := os.Getenv("RESUME_AI_URL")
	if aiBaseURL == "" {
		return nil, fmt.Errorf("RESUME_AI_URL is required but not set")
	}

	config := &ServerConfig{
		Port:               os.Getenv("PORT"),
		DatabaseURL:        databaseURL,
		AIBaseURL:          aiBaseURL,
		RedisURL:           os.Getenv("REDIS_URL"),
		RateLimitPerMinute: 60,
		RateLimitBurst:     10,
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %v", err)
		}
		config.RateLimitPerMinute = n
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %v", err)
		}
		config.RateLimitBurst = n
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got: %d", c.RateLimitPerMinute)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got: %d", c.RateLimitBurst)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %s", c.Port)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}
