package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxCommentLength = 10000

// Comment is a text reply attached to a video.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index" json:"videoId"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Comment) OwnerOf() uuid.UUID { return c.OwnerID }
