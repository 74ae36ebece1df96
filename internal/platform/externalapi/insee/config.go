// Package insee provides a client for the INSEE BDM statistical data API.
package insee

import (
	"os"
	"time"
)

// DefaultBaseURL is the public root of the INSEE API portal.
const DefaultBaseURL = "https://api.insee.fr"

// Config holds configuration for the INSEE API client.
type Config struct {
	ClientID     string        // OAuth2 client ID issued by the portal
	ClientSecret string        // OAuth2 client secret
	BaseURL      string        // Base URL for the API (e.g. "https://api.insee.fr")
	Timeout      time.Duration // HTTP client timeout, 0 relies on request contexts
}

// LoadConfig loads INSEE configuration from environment variables.
// INSEE_TIMEOUT accepts a Go duration string ("30s"); unset or invalid keeps 0.
func LoadConfig() Config {
	cfg := Config{
		ClientID:     os.Getenv("INSEE_CLIENT_ID"),
		ClientSecret: os.Getenv("INSEE_CLIENT_SECRET"),
		BaseURL:      os.Getenv("INSEE_BASE_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if v := os.Getenv("INSEE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}
