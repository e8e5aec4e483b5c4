package apiclient

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds backend connection settings.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string

	// Timeout bounds a single HTTP attempt. Default: 15s.
	Timeout time.Duration

	Retry RetryConfig

	// FanoutLimit caps concurrent requests issued by overview loaders.
	FanoutLimit int

	// RateLimit is the sustained request rate per second; 0 disables it.
	RateLimit float64
	RateBurst int
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultBaseURL matches the backend's default context path.
const DefaultBaseURL = "http://localhost:8080/api"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 15 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		FanoutLimit: 4,
		RateLimit:   20,
		RateBurst:   10,
	}
}

// Validate checks that the base URL is absolute.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url %q has no host", c.BaseURL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	return nil
}
