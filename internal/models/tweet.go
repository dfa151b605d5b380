package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxTweetLength = 280

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (t *Tweet) OwnerOf() uuid.UUID { return t.OwnerID }
