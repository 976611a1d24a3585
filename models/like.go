package models

import "time"

// Likeable entity kinds.
const (
	LikeArticle    = "article"
	LikePodcast    = "podcast"
	LikeDiscussion = "discussion"
	LikeReply      = "reply"
)

// Like records one increment per actor per entity. Actor is "user:<id>" for
// authenticated callers or "device:<sha256>" for anonymous callers that
// present a device token. The unique index is the idempotency guarantee;
// counters are bumped only when the insert actually lands.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	EntityType string `json:"entity_type" gorm:"uniqueIndex:idx_like_actor;not null"`
	EntityID   uint   `json:"entity_id" gorm:"uniqueIndex:idx_like_actor;not null"`
	Actor      string `json:"actor" gorm:"uniqueIndex:idx_like_actor;not null"`
}

func (Like) TableName() string {
	return "likes"
}
