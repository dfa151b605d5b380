package service

import (
	"context"
	"log/slog"
	"strings"

	"vidtube/internal/cache"
	"vidtube/internal/media"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/observability"
	"vidtube/internal/pagination"
	"vidtube/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// VideoPageLabels shape the paginated video listing.
var VideoPageLabels = pagination.Labels{
	Items:         "videos",
	TotalItems:    "totalVideos",
	Limit:         "perPage",
	Page:          "currentPage",
	NextPage:      "nextPage",
	PrevPage:      "prevPage",
	TotalPages:    "totalPages",
	PagingCounter: "pagingCounter",
	Meta:          "paginator",
}

type VideoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	gate      *OwnershipGate
	store     media.Store
	prober    media.Prober
	events    EventPublisher
}

type ListVideosInput struct {
	OwnerID *uuid.UUID
	Query   string
	Page    pagination.Params
}

type PublishVideoInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	VideoFile   *media.Upload
	Thumbnail   *media.Upload
}

type UpdateVideoInput struct {
	UserID      uuid.UUID
	VideoID     uuid.UUID
	Title       string
	Description string
	Thumbnail   *media.Upload
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	gate *OwnershipGate,
	store media.Store,
	prober media.Prober,
	events EventPublisher,
) *VideoService {
	if prober == nil {
		prober = media.NoopProber{}
	}
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		gate:      gate,
		store:     store,
		prober:    prober,
		events:    events,
	}
}

func (s *VideoService) ListVideos(ctx context.Context, in ListVideosInput) (*pagination.Page[models.Video], error) {
	page, err := s.videoRepo.List(ctx, repository.VideoFilter{
		OwnerID: in.OwnerID,
		Query:   strings.TrimSpace(in.Query),
	}, in.Page)
	if err != nil {
		return nil, err
	}
	return page.WithLabels(VideoPageLabels), nil
}

// PublishVideo uploads both files, probes the duration and stores the video.
// A failed probe is logged and leaves the duration at zero.
func (s *VideoService) PublishVideo(ctx context.Context, in PublishVideoInput) (_ *models.Video, err error) {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "VideoService", "PublishVideo")
	defer func() {
		observability.RecordErrorInContext(ctx, err)
		span.End()
	}()

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" || in.VideoFile == nil || in.Thumbnail == nil {
		return nil, models.NewValidationError("All fields are required")
	}

	videoURL, err := s.store.Put(ctx, media.ObjectKey(media.FolderVideos, in.VideoFile.Filename), *in.VideoFile)
	if err != nil {
		return nil, models.NewUpstreamError("There was an error uploading video", err)
	}

	duration, err := s.prober.Duration(ctx, in.VideoFile.Path)
	if err != nil {
		slog.WarnContext(ctx, "could not probe video duration",
			slog.String("file", in.VideoFile.Filename),
			slog.String("error", err.Error()),
		)
		duration = 0
	}

	thumbnailURL, err := s.store.Put(ctx, media.ObjectKey(media.FolderThumbnails, in.Thumbnail.Filename), *in.Thumbnail)
	if err != nil {
		return nil, models.NewUpstreamError("There was an error uploading thumbnail", err)
	}

	video := &models.Video{
		OwnerID:      in.UserID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		IsPublished:  true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	observability.AddTraceAttributesToContext(ctx,
		attribute.String("video.id", video.ID.String()),
		attribute.Float64("video.duration", duration),
	)

	cache.InvalidateChannelStats(ctx, in.UserID)
	publish(ctx, s.events, notifications.Event{
		Type:       notifications.EventVideoPublished,
		TargetKind: string(models.TargetVideo),
		TargetID:   video.ID,
		ActorID:    in.UserID,
	})
	return video, nil
}

// GetVideo counts a view and records the video as the caller's latest watch.
func (s *VideoService) GetVideo(ctx context.Context, callerID, videoID uuid.UUID) (*models.Video, error) {
	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	if callerID != uuid.Nil {
		if err := s.userRepo.SetWatchHistory(ctx, callerID, videoID); err != nil {
			slog.WarnContext(ctx, "failed to record watch history",
				slog.String("video_id", videoID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	cache.InvalidateChannelStats(ctx, video.OwnerID)
	return video, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, in UpdateVideoInput) (*models.Video, error) {
	if _, err := s.gate.Authorize(ctx, ResourceVideo, in.VideoID, in.UserID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, models.NewValidationError("All fields are required i.e. title and description")
	}

	update := repository.VideoUpdate{Title: title, Description: description}
	if in.Thumbnail != nil {
		url, err := s.store.Put(ctx, media.ObjectKey(media.FolderThumbnails, in.Thumbnail.Filename), *in.Thumbnail)
		if err != nil {
			return nil, models.NewUpstreamError("There was an error uploading the thumbnail", err)
		}
		update.ThumbnailURL = url
	}

	return s.videoRepo.UpdateOwned(ctx, in.VideoID, in.UserID, update)
}

// TogglePublish flips the published flag and returns its new value.
func (s *VideoService) TogglePublish(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	if _, err := s.gate.Authorize(ctx, ResourceVideo, videoID, userID); err != nil {
		return false, err
	}
	return s.videoRepo.TogglePublishOwned(ctx, videoID, userID)
}

func (s *VideoService) DeleteVideo(ctx context.Context, userID, videoID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, ResourceVideo, videoID, userID); err != nil {
		return err
	}
	if err := s.videoRepo.DeleteOwned(ctx, videoID, userID); err != nil {
		return err
	}
	cache.InvalidateChannelStats(ctx, userID)
	return nil
}
