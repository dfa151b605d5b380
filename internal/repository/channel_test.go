package repository

import (
	"testing"
	"time"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelRepository_Stats(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewChannelRepository(db)
	subs := NewSubscriptionRepository(db)
	likes := NewLikeRepository(db)

	creator := seedUser(t, db, "creator")
	fan := seedUser(t, db, "fan")
	other := seedUser(t, db, "other")

	a := seedVideo(t, db, creator.ID, "a", time.Now())
	b := seedVideo(t, db, creator.ID, "b", time.Now())
	foreign := seedVideo(t, db, other.ID, "foreign", time.Now())
	require.NoError(t, db.Model(&models.Video{}).Where("id = ?", a.ID).Update("views", 40).Error)
	require.NoError(t, db.Model(&models.Video{}).Where("id = ?", b.ID).Update("views", 2).Error)
	require.NoError(t, db.Model(&models.Video{}).Where("id = ?", foreign.ID).Update("views", 1000).Error)

	require.NoError(t, subs.Subscribe(bg, fan.ID, creator.ID))
	require.NoError(t, subs.Subscribe(bg, fan.ID, creator.ID))
	require.NoError(t, subs.Subscribe(bg, other.ID, creator.ID))

	for _, target := range []models.LikeTarget{
		{Kind: models.TargetVideo, ID: a.ID},
		{Kind: models.TargetVideo, ID: b.ID},
		{Kind: models.TargetVideo, ID: foreign.ID},
		{Kind: models.TargetComment, ID: a.ID},
	} {
		_, err := likes.Add(bg, &models.Like{LikedBy: fan.ID, Target: target})
		require.NoError(t, err)
	}

	stats, err := repo.Stats(bg, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, creator.ID, stats.ChannelID)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(2), stats.TotalSubscribers)
	assert.Equal(t, int64(2), stats.TotalLikes)
	assert.Equal(t, int64(42), stats.TotalViews)

	count, err := subs.CountSubscribers(bg, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestChannelRepository_StatsForEmptyChannel(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewChannelRepository(db)

	stats, err := repo.Stats(bg, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVideos)
	assert.Zero(t, stats.TotalSubscribers)
	assert.Zero(t, stats.TotalLikes)
	assert.Zero(t, stats.TotalViews)
}
