package repository

import (
	"context"
	"strings"

	"vidtube/internal/models"
	"vidtube/internal/observability"
	"vidtube/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoSortFields are the sort names accepted by the video listing.
var VideoSortFields = pagination.SortFields{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

// VideoFilter narrows the video listing. Zero values match everything.
type VideoFilter struct {
	OwnerID *uuid.UUID
	Query   string
}

// VideoUpdate carries the editable video fields. An empty ThumbnailURL keeps the current one.
type VideoUpdate struct {
	Title        string
	Description  string
	ThumbnailURL string
}

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Video, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter VideoFilter, p pagination.Params) (*pagination.Page[models.Video], error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, in VideoUpdate) (*models.Video, error)
	TogglePublishOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	return findByID[models.Video](ctx, r.db, "Video", id)
}

// GetByIDs returns the videos that still exist, in no particular order.
func (r *videoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Video, error) {
	videos := make([]*models.Video, 0, len(ids))
	if len(ids) == 0 {
		return videos, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return existsByID(ctx, r.db, &models.Video{}, id)
}

func (r *videoRepository) List(
	ctx context.Context,
	filter VideoFilter,
	p pagination.Params,
) (*pagination.Page[models.Video], error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "ListVideos", "videos")
	defer span.End()
	defer observability.TrackQuery("list", "videos")()

	query := r.db.Model(&models.Video{})
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := containsPattern(q)
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}

	page, err := pagination.Paginate[models.Video](ctx, query, p)
	if err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, models.NewInternalError(err)
	}
	return page, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error) {
	videos := make([]*models.Video, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

// UpdateOwned applies in only when ownerID still owns the video.
func (r *videoRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, in VideoUpdate) (*models.Video, error) {
	updates := map[string]any{
		"title":       in.Title,
		"description": in.Description,
	}
	if in.ThumbnailURL != "" {
		updates["thumbnail_url"] = in.ThumbnailURL
	}

	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewOwnedNotFoundError("Video")
	}
	return r.GetByID(ctx, id)
}

// TogglePublishOwned flips is_published in one statement and returns the new value.
func (r *videoRepository) TogglePublishOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	var published bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Video{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Update("is_published", gorm.Expr("NOT is_published"))
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewOwnedNotFoundError("Video")
		}
		var flags []bool
		if err := tx.Model(&models.Video{}).Where("id = ?", id).Pluck("is_published", &flags).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(flags) == 0 {
			return models.NewOwnedNotFoundError("Video")
		}
		published = flags[0]
		return nil
	})
	return published, err
}

// DeleteOwned removes the video with its comments and playlist entries.
// Likes are polymorphic and are left in place.
func (r *videoRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Video{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewOwnedNotFoundError("Video")
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// IncrementViews bumps the view counter without a read-modify-write.
func (r *videoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Video", id)
	}
	return nil
}
