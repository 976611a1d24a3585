package models

import "time"

// Ordered privilege levels. Admin is the superset role.
const (
	RoleSubscriber  = "subscriber"
	RoleContributor = "contributor"
	RoleEditor      = "editor"
	RoleAdmin       = "admin"
)

var Roles = []string{RoleSubscriber, RoleContributor, RoleEditor, RoleAdmin}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email  string `json:"email" gorm:"uniqueIndex;not null"`
	Name   string `json:"name" gorm:"not null"`
	Role   string `json:"role" gorm:"index;default:'subscriber'"`
	Active bool   `json:"active" gorm:"default:true"`

	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`

	// Gamification
	Points int    `json:"points" gorm:"default:0"`
	Badges string `json:"badges,omitempty"` // JSON array of badge slugs
}

func (User) TableName() string {
	return "users"
}

// UserInvitation is a pending invite; revocable until accepted.
type UserInvitation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Email string `json:"email" gorm:"index;not null"`
	Role  string `json:"role" gorm:"default:'subscriber'"`
	Token string `json:"token" gorm:"uniqueIndex;not null"`
}

func (UserInvitation) TableName() string {
	return "user_invitations"
}
