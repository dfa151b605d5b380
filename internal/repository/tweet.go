package repository

import (
	"context"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Tweet, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	return findByID[models.Tweet](ctx, r.db, "Tweet", id)
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error) {
	tweets := make([]*models.Tweet, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

func (r *tweetRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Tweet, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewOwnedNotFoundError("Tweet")
	}
	return r.GetByID(ctx, id)
}

func (r *tweetRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Tweet{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewOwnedNotFoundError("Tweet")
	}
	return nil
}
