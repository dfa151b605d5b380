package repository

import (
	"context"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository stores channel subscriptions. Toggling is not exposed
// over HTTP; rows come from seeding and are read by the channel stats.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Subscribe is idempotent.
func (r *subscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	sub := &models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
