// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is a coin the service tracks.
// Code is the coin as the candle source quotes it, so case matters (e.g., "BTC", "kPEPE").
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Venue     string    `gorm:"size:32;not null;default:hyperliquid"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
