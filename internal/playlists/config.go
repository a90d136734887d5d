package playlists

import (
	"errors"
	"net/url"
	"os"
	"strings"
)

// DefaultBaseURL is used when PLAYLISTS_API_URL is not set.
const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrInvalidBaseURL is returned when the configured API URL cannot be used.
var ErrInvalidBaseURL = errors.New("invalid PLAYLISTS_API_URL")

// Config holds playlists API configuration.
type Config struct {
	BaseURL string
}

// LoadConfig reads the playlists API configuration from environment variables,
// falling back to DefaultBaseURL.
func LoadConfig() (*Config, error) {
	base := os.Getenv("PLAYLISTS_API_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	cfg := &Config{BaseURL: base}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that BaseURL is an absolute http(s) URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}
