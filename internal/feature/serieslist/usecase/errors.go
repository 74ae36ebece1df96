// Package usecase は系列カタログ操作のビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrDuplicateIDBank is returned when a series with the same idbank already exists.
	ErrDuplicateIDBank = errors.New("series with this idbank already exists")

	// ErrSeriesNotFound is returned when no series matches the given idbank.
	ErrSeriesNotFound = errors.New("series not found")

	// ErrInvalidSeries is returned when a series to register has no idbank or title.
	ErrInvalidSeries = errors.New("series idbank and title are required")
)
