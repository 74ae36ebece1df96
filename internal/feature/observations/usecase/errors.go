// Package usecase はINSEE BDM系列データ操作のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrNoIdentifiers is returned when no usable idbank remains after trimming.
	ErrNoIdentifiers = errors.New("no series identifiers provided")

	// ErrInvalidDetail is returned when the detail filter is not a known BDM level.
	ErrInvalidDetail = errors.New("invalid detail level")
)
