package service

import (
	"context"
	"time"

	"vidtube/internal/cache"
	"vidtube/internal/models"
	"vidtube/internal/observability"
	"vidtube/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ChannelService reports per-channel aggregates.
type ChannelService struct {
	channelRepo repository.ChannelRepository
	videoRepo   repository.VideoRepository
	statsTTL    time.Duration
}

// NewChannelService caches stats for statsTTL; zero disables caching.
func NewChannelService(
	channelRepo repository.ChannelRepository,
	videoRepo repository.VideoRepository,
	statsTTL time.Duration,
) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		videoRepo:   videoRepo,
		statsTTL:    statsTTL,
	}
}

// GetStats returns the channel totals. Unknown channels report zeros.
func (s *ChannelService) GetStats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "ChannelService", "GetStats")
	defer span.End()
	observability.AddTraceAttributesToContext(ctx, attribute.String("channel.id", channelID.String()))

	var stats models.ChannelStats
	err := cache.Aside(ctx, cache.ChannelStatsKey(channelID), &stats, s.statsTTL, func() error {
		fresh, err := s.channelRepo.Stats(ctx, channelID)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}
	return &stats, nil
}

// GetVideos returns every video the channel owns, newest first.
func (s *ChannelService) GetVideos(ctx context.Context, channelID uuid.UUID) ([]*models.Video, error) {
	videos, err := s.videoRepo.ListByOwner(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return videos, nil
}
