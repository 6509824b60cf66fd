// Package logoapi implements the HTTP transport to the Logo Objects REST API.
package logoapi

import (
	"errors"
	"strings"
	"time"
)

// Config holds connection settings for one Logo Objects endpoint.
type Config struct {
	// BaseURL is the API root, e.g. http://erp:32001/api/v1.
	BaseURL string

	// Password grant credentials. An empty Username disables authentication.
	Username string
	Password string
	FirmNo   string

	// Client credentials sent as HTTP Basic on the token request.
	ClientID     string
	ClientSecret string

	Timeout   time.Duration
	UserAgent string

	// TokenSkew is subtracted from the token expiry so a token is never
	// used in its last moments.
	TokenSkew time.Duration
}

// DefaultConfig returns a Config with sane timeouts and no endpoint.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "logoobjects-go",
		TokenSkew: 30 * time.Second,
	}
}

// Validate checks required settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("logoapi: base URL is required")
	}
	if c.Username != "" && c.FirmNo == "" {
		return errors.New("logoapi: firm number is required when a username is set")
	}
	return nil
}

func (c Config) root() string {
	return strings.TrimRight(c.BaseURL, "/")
}
