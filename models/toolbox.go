package models

import "time"

// Toolbox app lifecycle, in order. Status changes may only move along this
// sequence (either direction, one step at a time).
var ToolboxStatuses = []string{"developing", "testing", "beta_ready", "ready_for_commercial_use"}

var ToolboxSections = []string{"controller", "fpa"}

type ToolboxApp struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Link        string `json:"link,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Section     string `json:"section" gorm:"index;not null"`
	Status      string `json:"status" gorm:"index;default:'developing'"`

	DisplayOrder int  `json:"display_order" gorm:"default:0"`
	Active       bool `json:"active" gorm:"default:true"`
}

func (ToolboxApp) TableName() string {
	return "toolbox_apps"
}

// ToolboxStatusIndex returns the position of a status in the lifecycle, or -1.
func ToolboxStatusIndex(status string) int {
	for i, s := range ToolboxStatuses {
		if s == status {
			return i
		}
	}
	return -1
}
