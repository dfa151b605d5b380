package repository

import (
	"context"

	"vidtube/internal/models"
	"vidtube/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelRepository aggregates per-channel statistics.
type ChannelRepository interface {
	Stats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error)
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// Stats runs one statement per figure. Likes are counted through a subquery
// over the channel's videos so no id list is ever materialized.
func (r *channelRepository) Stats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "ChannelStats", "videos")
	defer span.End()
	defer observability.TrackQuery("stats", "videos")()

	db := r.db.WithContext(ctx)
	stats := &models.ChannelStats{ChannelID: channelID}

	if err := db.Model(&models.Video{}).Where("owner_id = ?", channelID).Count(&stats.TotalVideos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Subscription{}).Where("channel_id = ?", channelID).Count(&stats.TotalSubscribers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	owned := db.Model(&models.Video{}).Select("id").Where("owner_id = ?", channelID)
	err := db.Model(&models.Like{}).
		Where("target_kind = ? AND target_id IN (?)", models.TargetVideo, owned).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	err = db.Model(&models.Video{}).
		Select("COALESCE(SUM(views), 0)").
		Where("owner_id = ?", channelID).
		Scan(&stats.TotalViews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return stats, nil
}
