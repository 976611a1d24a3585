package models

import "time"

// SeedMarker records that demo content of a given version has been applied.
// Its presence is the seeding guard; row counts are never consulted.
type SeedMarker struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Version  string    `json:"version" gorm:"not null"`
	SeededAt time.Time `json:"seeded_at"`
}

func (SeedMarker) TableName() string {
	return "seed_markers"
}
