package models

import "github.com/google/uuid"

// ChannelStats summarizes a channel's content and audience.
type ChannelStats struct {
	ChannelID        uuid.UUID `json:"channelId"`
	TotalVideos      int64     `json:"totalVideos"`
	TotalSubscribers int64     `json:"totalSubscribers"`
	TotalLikes       int64     `json:"totalLikes"`
	TotalViews       int64     `json:"totalViews"`
}

// Owned is implemented by every resource that has a single owner.
type Owned interface {
	OwnerOf() uuid.UUID
}
