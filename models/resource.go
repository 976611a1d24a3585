package models

import "time"

var ResourceTypes = []string{"guide", "video", "template", "tool", "case_study"}

// Resource is an entry in the downloadable resource library.
type Resource struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Type        string `json:"type" gorm:"index;not null"`
	Category    string `json:"category,omitempty" gorm:"index"`
	FileURL     string `json:"file_url,omitempty"`

	Downloads   int `json:"downloads" gorm:"default:0"`
	RatingSum   int `json:"rating_sum" gorm:"default:0"`
	RatingCount int `json:"rating_count" gorm:"default:0"`
}

func (Resource) TableName() string {
	return "resources"
}
