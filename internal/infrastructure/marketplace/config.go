package marketplace

import (
	"errors"
	"time"
)

// Config errors
var (
	ErrMissingAuthURL = errors.New("marketplace: auth URL is required")
	ErrMissingBaseURL = errors.New("marketplace: base URL is required")
)

// Config holds the marketplace API client configuration
type Config struct {
	// AuthURL is the client-credentials token endpoint
	AuthURL string
	// BaseURL is the API base for polling, order detail and acknowledgment
	BaseURL string
	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int
}

// Validate checks that the configuration is complete
func (c *Config) Validate() error {
	if c.AuthURL == "" {
		return ErrMissingAuthURL
	}
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}

// timeout returns the request timeout with a sane floor
func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
