// Package entity defines the domain models for the serieslist feature.
package entity

import "time"

// Series represents one BDM series known to the catalog.
// It carries the metadata shown to clients when they pick series to fetch;
// the observations themselves are never stored here.
type Series struct {
	ID        uint      `gorm:"primaryKey"`
	IDBank    string    `gorm:"size:20;not null;uniqueIndex"`
	Title     string    `gorm:"size:255;not null"`
	Frequency string    `gorm:"size:20;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
