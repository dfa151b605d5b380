// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. A user's channel is identified by the user id.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName      string     `gorm:"size:255" json:"fullName"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	AvatarURL     string     `json:"avatarUrl"`
	CoverImageURL string     `json:"coverImageUrl,omitempty"`
	WatchHistory  *uuid.UUID `gorm:"type:uuid" json:"watchHistory,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Subscription records that SubscriberID follows the channel ChannelID.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:2" json:"subscriberId"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:1" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
