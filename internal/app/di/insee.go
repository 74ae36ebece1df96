// Package di provides dependency injection factories for creating application components.
package di

import (
	"insee_backend/internal/platform/externalapi/insee"
	infrahttp "insee_backend/internal/platform/http"
)

// NewBDMClient creates a fully configured INSEE BDM client with HTTP client.
// Returns an error when the OAuth2 credentials are missing from the environment.
func NewBDMClient() (*insee.Client, error) {
	cfg := insee.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return insee.NewClient(cfg, httpClient)
}
