package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist is an ordered, duplicate-free list of videos curated by its owner.
// VideoIDs is loaded from playlist_videos in position order.
type Playlist struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"ownerId"`
	VideoIDs    []uuid.UUID `gorm:"-" json:"videos"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (p *Playlist) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *Playlist) OwnerOf() uuid.UUID { return p.OwnerID }

// PlaylistVideo is one entry of a playlist. The composite key keeps entries unique.
type PlaylistVideo struct {
	PlaylistID uuid.UUID `gorm:"type:uuid;primaryKey" json:"playlistId"`
	VideoID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"videoId"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}

// PlaylistWithVideos is a playlist whose entries are expanded into videos.
type PlaylistWithVideos struct {
	Playlist
	Videos []*Video `json:"videos"`
}
