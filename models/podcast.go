package models

import "time"

// PodcastEpisode is one entry in the podcast directory. EpisodeNumber is the
// unique ordering key shown to listeners.
type PodcastEpisode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EpisodeNumber int    `json:"episode_number" gorm:"uniqueIndex;not null"`
	Title         string `json:"title" gorm:"not null"`
	Description   string `json:"description,omitempty" gorm:"type:text"`
	AudioURL      string `json:"audio_url,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	Host          string `json:"host,omitempty"`
	Guests        string `json:"guests,omitempty"`
	Duration      string `json:"duration,omitempty"`

	Plays    int  `json:"plays" gorm:"default:0"`
	Likes    int  `json:"likes" gorm:"default:0"`
	Featured bool `json:"featured" gorm:"default:false"`
}

func (PodcastEpisode) TableName() string {
	return "podcast_episodes"
}
