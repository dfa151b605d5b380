package repository

import (
	"context"
	"fmt"

	"vidtube/internal/models"
	"vidtube/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores likes. Every write is a single statement so the
// toggle stays correct under concurrent requests from the same user.
type LikeRepository interface {
	Remove(ctx context.Context, likedBy uuid.UUID, target models.LikeTarget) (bool, error)
	Add(ctx context.Context, like *models.Like) (bool, error)
	CountFor(ctx context.Context, target models.LikeTarget) (int64, error)
	ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*models.Video, error)
	TargetExists(ctx context.Context, target models.LikeTarget) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Remove deletes the caller's like of target and reports whether a row went away.
func (r *likeRepository) Remove(ctx context.Context, likedBy uuid.UUID, target models.LikeTarget) (bool, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "RemoveLike", "likes")
	defer span.End()

	res := r.db.WithContext(ctx).
		Where("liked_by = ? AND target_kind = ? AND target_id = ?", likedBy, target.Kind, target.ID).
		Delete(&models.Like{})
	if res.Error != nil {
		observability.RecordErrorInContext(ctx, res.Error)
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Add inserts like unless the caller already likes the target. It reports
// false, without error, when the unique key absorbed the insert.
func (r *likeRepository) Add(ctx context.Context, like *models.Like) (bool, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "AddLike", "likes")
	defer span.End()

	// INSERT ... ON CONFLICT DO NOTHING keeps racing toggles from raising duplicate-key errors.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liked_by"}, {Name: "target_kind"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		observability.RecordErrorInContext(ctx, res.Error)
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) CountFor(ctx context.Context, target models.LikeTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListLikedVideos returns the videos userID liked, newest like first. Likes
// whose video has been deleted drop out of the join.
func (r *likeRepository) ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*models.Video, error) {
	defer observability.TrackQuery("liked_videos", "likes")()

	videos := make([]*models.Video, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Select("videos.*").
		Joins("JOIN likes ON likes.target_id = videos.id AND likes.target_kind = ?", models.TargetVideo).
		Where("likes.liked_by = ?", userID).
		Order("likes.created_at DESC").
		Order("videos.id").
		Find(&videos).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *likeRepository) TargetExists(ctx context.Context, target models.LikeTarget) (bool, error) {
	var model any
	switch target.Kind {
	case models.TargetVideo:
		model = &models.Video{}
	case models.TargetComment:
		model = &models.Comment{}
	case models.TargetTweet:
		model = &models.Tweet{}
	default:
		return false, models.NewInternalError(fmt.Errorf("unknown like target kind %q", target.Kind))
	}
	return existsByID(ctx, r.db, model, target.ID)
}
