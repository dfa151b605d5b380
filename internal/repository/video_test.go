package repository

import (
	"regexp"
	"testing"
	"time"

	"vidtube/internal/models"
	"vidtube/internal/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoRepository_IncrementViewsIsAtomic(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVideoRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "videos" SET "views"=views + $1 WHERE id = $2`)).
		WithArgs(1, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.IncrementViews(bg, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_List(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	base := time.Now().UTC().Add(-time.Hour)
	for i, title := range []string{"Go basics", "Cooking pasta", "Advanced Go", "Gardening"} {
		seedVideo(t, db, alice.ID, title, base.Add(time.Duration(i)*time.Minute))
	}
	seedVideo(t, db, bob.ID, "Bob on Go", base.Add(10*time.Minute))

	t.Run("default order newest first", func(t *testing.T) {
		page, err := repo.List(bg, VideoFilter{}, pagination.Default("created_at"))
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalItems)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "Bob on Go", page.Items[0].Title)
		assert.Equal(t, "Go basics", page.Items[4].Title)
	})

	t.Run("owner and query filter", func(t *testing.T) {
		owner := alice.ID
		page, err := repo.List(bg, VideoFilter{OwnerID: &owner, Query: "go"}, pagination.Default("created_at"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalItems)
		for _, v := range page.Items {
			assert.Equal(t, alice.ID, v.OwnerID)
		}
	})

	t.Run("second page", func(t *testing.T) {
		p, err := pagination.FromQuery("2", "2", "title", "asc", VideoSortFields)
		require.NoError(t, err)
		page, err := repo.List(bg, VideoFilter{}, p)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Cooking pasta", page.Items[0].Title)
		assert.Equal(t, "Gardening", page.Items[1].Title)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("page past the end", func(t *testing.T) {
		p, err := pagination.FromQuery("9", "2", "", "", VideoSortFields)
		require.NoError(t, err)
		page, err := repo.List(bg, VideoFilter{}, p)
		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})
}

func TestVideoRepository_OwnedMutations(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	video := seedVideo(t, db, owner.ID, "clip", time.Now())

	_, err := repo.UpdateOwned(bg, video.ID, stranger.ID, VideoUpdate{Title: "hijack", Description: "x"})
	assertCode(t, err, models.CodeNotFound)

	updated, err := repo.UpdateOwned(bg, video.ID, owner.ID, VideoUpdate{Title: "renamed", Description: "new"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, video.ThumbnailURL, updated.ThumbnailURL, "empty thumbnail keeps the old one")

	published, err := repo.TogglePublishOwned(bg, video.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, published)
	published, err = repo.TogglePublishOwned(bg, video.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, published)

	_, err = repo.TogglePublishOwned(bg, video.ID, stranger.ID)
	assertCode(t, err, models.CodeNotFound)

	require.NoError(t, repo.IncrementViews(bg, video.ID))
	require.NoError(t, repo.IncrementViews(bg, video.ID))
	reloaded, err := repo.GetByID(bg, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.Views)

	assertCode(t, repo.IncrementViews(bg, uuid.New()), models.CodeNotFound)
}

func TestVideoRepository_DeleteOwnedCascades(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)

	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, "clip", time.Now())
	playlist := &models.Playlist{Name: "mix", OwnerID: owner.ID}
	require.NoError(t, db.Create(playlist).Error)
	require.NoError(t, db.Create(&models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: video.ID, Position: 1}).Error)
	require.NoError(t, db.Create(&models.Comment{VideoID: video.ID, OwnerID: owner.ID, Content: "hi"}).Error)
	require.NoError(t, db.Create(&models.Like{LikedBy: owner.ID, Target: models.LikeTarget{Kind: models.TargetVideo, ID: video.ID}}).Error)

	assertCode(t, repo.DeleteOwned(bg, video.ID, uuid.New()), models.CodeNotFound)
	require.NoError(t, repo.DeleteOwned(bg, video.ID, owner.ID))

	var comments, entries, likes int64
	db.Model(&models.Comment{}).Where("video_id = ?", video.ID).Count(&comments)
	db.Model(&models.PlaylistVideo{}).Where("video_id = ?", video.ID).Count(&entries)
	db.Model(&models.Like{}).Where("target_id = ?", video.ID).Count(&likes)
	assert.Zero(t, comments)
	assert.Zero(t, entries)
	assert.Equal(t, int64(1), likes)

	_, err := repo.GetByID(bg, video.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestVideoRepository_ListQueryIsLiteral(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)

	owner := seedUser(t, db, "alice")
	base := time.Now().UTC()
	for i, title := range []string{"snake_case tips", "100% real", `C:\path tricks`, "plain title"} {
		seedVideo(t, db, owner.ID, title, base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"_", []string{"snake_case tips"}},
		{"%", []string{"100% real"}},
		{`\`, []string{`C:\path tricks`}},
		{"SNAKE", []string{"snake_case tips"}},
		{"e_c", []string{"snake_case tips"}},
		{"x_y", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := repo.List(bg, VideoFilter{Query: tt.query}, pagination.Default("created_at"))
			require.NoError(t, err)
			var titles []string
			for _, v := range page.Items {
				titles = append(titles, v.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_OFF"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
