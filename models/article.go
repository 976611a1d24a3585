package models

import "time"

// Valid article category tags. The client renders these as filter chips.
var ArticleCategories = []string{
	"automation", "controlling", "fpa", "reporting", "strategy", "tools", "community",
}

// Article is a news item on the front page feed.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title    string `json:"title" gorm:"not null"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Excerpt  string `json:"excerpt,omitempty"`
	Category string `json:"category" gorm:"index;not null"`
	Source   string `json:"source,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	Likes    int  `json:"likes" gorm:"default:0"`
	Archived bool `json:"archived" gorm:"index;default:false"`
	Featured bool `json:"featured" gorm:"default:false"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    uint       `json:"author_id" gorm:"index"`
}

func (Article) TableName() string {
	return "articles"
}

// Comment belongs to exactly one article and is deleted together with it.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID uint   `json:"article_id" gorm:"index;not null"`
	AuthorID  uint   `json:"author_id" gorm:"index;not null"`
	Body      string `json:"body" gorm:"type:text;not null"`
}

func (Comment) TableName() string {
	return "comments"
}
