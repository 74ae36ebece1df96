// Package entity defines the domain models for the observations feature.
package entity

// Observation represents a single data point of an INSEE BDM series.
// A series is identified by its idbank (e.g. "001688406") and each point
// carries a period label and an optional numeric value.
type Observation struct {
	IDBank string   // BDM series identifier
	Date   string   // Period label as published (e.g. "2020-01", "2020-Q1", "2020")
	Value  *float64 // Observed value, nil when missing or non numeric
}

// SeriesQuery holds the optional filters accepted by the BDM series endpoint.
// Zero values mean "not set" and are omitted from the upstream request.
type SeriesQuery struct {
	StartPeriod       string // First period to include (e.g. "2019-01")
	LastNObservations int    // Most recent N observations per series
	Detail            string // Upstream detail level ("dataonly", "nodata", ...)
	IncludeHistory    bool   // Include revised values when true
	UpdatedAfter      string // Only series updated after this RFC3339 timestamp
}

// SeriesStats summarizes the numeric values of one series.
// Pointer fields are nil when the series has no numeric value at all.
type SeriesStats struct {
	IDBank string
	Count  int // Number of observations, missing values included
	Nulls  int // Number of observations without a numeric value
	Mean   *float64
	Std    *float64
	Min    *float64
	Max    *float64
}
