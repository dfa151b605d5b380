package service

import (
	"context"
	"log/slog"

	"vidtube/internal/cache"
	"vidtube/internal/featureflags"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/observability"
	"vidtube/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// LikeService toggles likes on videos, comments and tweets.
type LikeService struct {
	likeRepo  repository.LikeRepository
	videoRepo repository.VideoRepository
	events    EventPublisher
	flags     *featureflags.Manager
}

type ToggleLikeInput struct {
	UserID uuid.UUID
	Target models.LikeTarget
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	events EventPublisher,
	flags *featureflags.Manager,
) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		videoRepo: videoRepo,
		events:    events,
		flags:     flags,
	}
}

// Toggle flips the caller's like of the target. The delete runs first so a
// double submit never produces two likes; when a concurrent request inserts
// between our delete and insert, the insert is absorbed by the unique key and
// the toggle resolves to a removal.
func (s *LikeService) Toggle(ctx context.Context, in ToggleLikeInput) (_ *models.ToggleResult, err error) {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "LikeService", "Toggle")
	defer func() {
		observability.RecordErrorInContext(ctx, err)
		span.End()
	}()
	observability.AddTraceAttributesToContext(ctx,
		attribute.String("like.target_kind", string(in.Target.Kind)),
		attribute.String("like.target_id", in.Target.ID.String()),
	)

	if s.flags.Enabled(featureflags.StrictLikeTargets, in.UserID) {
		exists, err := s.likeRepo.TargetExists(ctx, in.Target)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewNotFoundError(in.Target.Kind.Label(), in.Target.ID)
		}
	}

	removed, err := s.likeRepo.Remove(ctx, in.UserID, in.Target)
	if err != nil {
		return nil, err
	}
	if removed {
		return s.finish(ctx, in, &models.ToggleResult{State: models.LikeRemoved}), nil
	}

	like := &models.Like{LikedBy: in.UserID, Target: in.Target}
	inserted, err := s.likeRepo.Add(ctx, like)
	if err != nil {
		return nil, err
	}
	if inserted {
		return s.finish(ctx, in, &models.ToggleResult{State: models.LikeAdded, Like: like}), nil
	}

	slog.InfoContext(ctx, "concurrent like toggle detected",
		slog.String("target_kind", string(in.Target.Kind)),
		slog.String("target_id", in.Target.ID.String()),
	)
	if _, err := s.likeRepo.Remove(ctx, in.UserID, in.Target); err != nil {
		return nil, err
	}
	return s.finish(ctx, in, &models.ToggleResult{State: models.LikeRemoved}), nil
}

func (s *LikeService) finish(ctx context.Context, in ToggleLikeInput, res *models.ToggleResult) *models.ToggleResult {
	observability.LikesToggled.WithLabelValues(string(in.Target.Kind), string(res.State)).Inc()
	observability.AddTraceAttributesToContext(ctx, attribute.String("like.state", string(res.State)))
	if in.Target.Kind == models.TargetVideo {
		s.invalidateOwnerStats(ctx, in.Target.ID)
	}

	evtType := notifications.EventLikeRemoved
	if res.State == models.LikeAdded {
		evtType = notifications.EventLikeAdded
	}
	publish(ctx, s.events, notifications.Event{
		Type:       evtType,
		TargetKind: string(in.Target.Kind),
		TargetID:   in.Target.ID,
		ActorID:    in.UserID,
	})
	return res
}

// invalidateOwnerStats drops the cached stats of the channel owning videoID.
// Likes on missing videos are allowed, so a failed lookup is only logged.
func (s *LikeService) invalidateOwnerStats(ctx context.Context, videoID uuid.UUID) {
	if s.videoRepo == nil {
		return
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		slog.DebugContext(ctx, "skipping stats invalidation for liked video",
			slog.String("video_id", videoID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	cache.InvalidateChannelStats(ctx, video.OwnerID)
}

func (s *LikeService) CountFor(ctx context.Context, target models.LikeTarget) (int64, error) {
	return s.likeRepo.CountFor(ctx, target)
}

// LikedVideos lists the videos the user likes, most recent like first.
func (s *LikeService) LikedVideos(ctx context.Context, userID uuid.UUID) ([]*models.Video, error) {
	videos, err := s.likeRepo.ListLikedVideos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []*models.Video{}
	}
	return videos, nil
}
