// Package dto defines data transfer objects for the INSEE API responses.
package dto

import "encoding/json"

// TokenResponse represents the JSON response from the INSEE token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SeriesResponse represents the JSON response from the SERIES_BDM endpoint.
// Observation entries vary in shape across datasets, so they are kept raw
// and interpreted by the client.
type SeriesResponse struct {
	Series []SeriesPayload `json:"series"`
}

// SeriesPayload is one series block. The identifier key is not stable
// across responses (idBank, idbank or id), so all three are captured.
type SeriesPayload struct {
	IDBank      string            `json:"idBank"`
	IDBankLower string            `json:"idbank"`
	ID          string            `json:"id"`
	Values      []json.RawMessage `json:"values"`
}

// ObservationPayload is the object form of one observation entry.
// The period key is usually "date" but "time" and "period" also occur.
type ObservationPayload struct {
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Period string          `json:"period"`
	Value  json.RawMessage `json:"value"`
}
