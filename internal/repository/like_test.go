package repository

import (
	"regexp"
	"testing"
	"time"

	"vidtube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_AddUsesOnConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "likes"`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT ("liked_by","target_kind","target_id") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, err := repo.Add(bg, &models.Like{
		LikedBy: uuid.New(),
		Target:  models.LikeTarget{Kind: models.TargetVideo, ID: uuid.New()},
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_AddRemove(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)

	user := seedUser(t, db, "liker")
	target := models.LikeTarget{Kind: models.TargetComment, ID: uuid.New()}

	inserted, err := repo.Add(bg, &models.Like{LikedBy: user.ID, Target: target})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Add(bg, &models.Like{LikedBy: user.ID, Target: target})
	require.NoError(t, err)
	assert.False(t, inserted, "the unique key must absorb a second like")

	count, err := repo.CountFor(bg, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	removed, err := repo.Remove(bg, user.ID, target)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(bg, user.ID, target)
	require.NoError(t, err)
	assert.False(t, removed)

	count, err = repo.CountFor(bg, target)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLikeRepository_ListLikedVideos(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	now := time.Now().UTC()
	older := seedVideo(t, db, owner.ID, "older", now.Add(-time.Hour))
	newer := seedVideo(t, db, owner.ID, "newer", now)
	gone := seedVideo(t, db, owner.ID, "gone", now)

	like := func(videoID uuid.UUID, at time.Time) {
		_, err := repo.Add(bg, &models.Like{
			LikedBy:   fan.ID,
			Target:    models.LikeTarget{Kind: models.TargetVideo, ID: videoID},
			CreatedAt: at,
		})
		require.NoError(t, err)
	}
	like(newer.ID, now.Add(-30*time.Minute))
	like(older.ID, now.Add(-10*time.Minute))
	like(gone.ID, now.Add(-5*time.Minute))
	// A like on a comment with the same id space must not leak into the result.
	_, err := repo.Add(bg, &models.Like{LikedBy: fan.ID, Target: models.LikeTarget{Kind: models.TargetComment, ID: newer.ID}})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Video{}, "id = ?", gone.ID).Error)

	videos, err := repo.ListLikedVideos(bg, fan.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, older.ID, videos[0].ID, "most recently liked first")
	assert.Equal(t, newer.ID, videos[1].ID)

	none, err := repo.ListLikedVideos(bg, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLikeRepository_TargetExists(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)

	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, "clip", time.Now())

	ok, err := repo.TargetExists(bg, models.LikeTarget{Kind: models.TargetVideo, ID: video.ID})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TargetExists(bg, models.LikeTarget{Kind: models.TargetTweet, ID: video.ID})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.TargetExists(bg, models.LikeTarget{Kind: "story", ID: video.ID})
	assert.Error(t, err)
}
