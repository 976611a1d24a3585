package models

import "time"

// ForumCategory groups discussions. DiscussionCount is denormalized and is
// only ever mutated inside the same transaction as the discussion row.
type ForumCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name            string `json:"name" gorm:"uniqueIndex;not null"`
	Description     string `json:"description,omitempty"`
	Color           string `json:"color,omitempty"`
	DiscussionCount int    `json:"discussion_count" gorm:"default:0"`
}

func (ForumCategory) TableName() string {
	return "forum_categories"
}

type ForumDiscussion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CategoryID uint   `json:"category_id" gorm:"index;not null"`
	AuthorID   uint   `json:"author_id" gorm:"index;not null"`
	Title      string `json:"title" gorm:"not null"`
	Body       string `json:"body" gorm:"type:text;not null"`

	Pinned      bool       `json:"pinned" gorm:"default:false"`
	Likes       int        `json:"likes" gorm:"default:0"`
	ReplyCount  int        `json:"reply_count" gorm:"default:0"`
	LastReplyAt *time.Time `json:"last_reply_at,omitempty"`
}

func (ForumDiscussion) TableName() string {
	return "forum_discussions"
}

type ForumReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	DiscussionID uint   `json:"discussion_id" gorm:"index;not null"`
	AuthorID     uint   `json:"author_id" gorm:"index;not null"`
	Body         string `json:"body" gorm:"type:text;not null"`
	Likes        int    `json:"likes" gorm:"default:0"`
}

func (ForumReply) TableName() string {
	return "forum_replies"
}
