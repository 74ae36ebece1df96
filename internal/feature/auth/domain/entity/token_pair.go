package entity

// TokenPair is the result of a successful login or refresh.
// The access token is a short-lived JWT; the refresh token is the
// session ID used to obtain the next pair.
type TokenPair struct {
	AccessToken  string // Signed JWT for API access
	RefreshToken string // Session ID (64-character hex string)
	ExpiresIn    int64  // Access token lifetime in seconds
}
