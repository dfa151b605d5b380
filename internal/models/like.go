package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetKind names the kind of thing a like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// ParseTargetKind accepts singular or plural kind names ("video", "videos").
func ParseTargetKind(raw string) (TargetKind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s") {
	case "video":
		return TargetVideo, nil
	case "comment":
		return TargetComment, nil
	case "tweet":
		return TargetTweet, nil
	}
	return "", NewInvalidIdentifierError("like target")
}

// Label is the capitalized kind used in response messages.
func (k TargetKind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// LikeTarget is the single thing a like points at. Storing kind and id together
// means a like can never reference zero or several targets.
type LikeTarget struct {
	Kind TargetKind `gorm:"column:target_kind;size:16;not null;uniqueIndex:idx_likes_owner_target,priority:2;index:idx_likes_target,priority:1" json:"kind"`
	ID   uuid.UUID  `gorm:"column:target_id;type:uuid;not null;uniqueIndex:idx_likes_owner_target,priority:3;index:idx_likes_target,priority:2" json:"id"`
}

// Like records one user's like of one target.
type Like struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LikedBy   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_owner_target,priority:1" json:"likedBy"`
	Target    LikeTarget `gorm:"embedded" json:"target"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// LikeState is the outcome of a toggle.
type LikeState string

const (
	LikeAdded   LikeState = "added"
	LikeRemoved LikeState = "removed"
)

// ToggleResult carries the toggle outcome; Like is set only when added.
type ToggleResult struct {
	State LikeState `json:"state"`
	Like  *Like     `json:"like,omitempty"`
}
