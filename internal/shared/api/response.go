// Package api defines response envelopes shared by all HTTP handlers.
package api

// ErrorResponse is the uniform error body returned by handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a minimal acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
