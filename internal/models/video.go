package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video is an uploaded video owned by one channel.
type Video struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	VideoURL     string    `gorm:"not null" json:"videoUrl"`
	ThumbnailURL string    `gorm:"not null" json:"thumbnailUrl"`
	// Duration is in seconds as reported by the media prober.
	Duration    float64   `gorm:"not null;default:0" json:"duration"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	IsPublished bool      `gorm:"not null;default:true" json:"isPublished"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(_ *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

func (v *Video) OwnerOf() uuid.UUID { return v.OwnerID }
