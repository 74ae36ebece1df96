// Package dto defines data transfer objects for the serieslist HTTP API.
package dto

// SeriesItem represents a catalog entry in the API response.
// It contains only the public-facing fields needed by clients.
type SeriesItem struct {
	Idbank    string `json:"idbank"`
	Title     string `json:"title"`
	Frequency string `json:"frequency"`
}
