package models

import "time"

var DigestFrequencies = []string{"daily", "weekly", "monthly"}

// Subscriber is a newsletter signup, independent of User: anonymous visitors
// may subscribe without an account.
type Subscriber struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Categories string `json:"categories,omitempty"` // comma-separated category tags
	Frequency  string `json:"frequency" gorm:"default:'weekly'"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}
