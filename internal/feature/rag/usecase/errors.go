// Package usecase はragフィーチャー（データに基づく質問応答）のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrMissingAPIKey is returned by answer clients when no API key is configured.
	// The usecase converts it into a user-facing diagnostic instead of failing.
	ErrMissingAPIKey = errors.New("model api key is not configured")
)
