package repository

import (
	"context"

	"vidtube/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaylistRepository defines persistence operations for playlists and their entries.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, name, description string) (*models.Playlist, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	HasVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return models.NewInternalError(err)
	}
	if playlist.VideoIDs == nil {
		playlist.VideoIDs = []uuid.UUID{}
	}
	return nil
}

// GetByID loads the playlist with its video ids in position order.
func (r *playlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	playlist, err := findByID[models.Playlist](ctx, r.db, "Playlist", id)
	if err != nil {
		return nil, err
	}
	if err := r.attachVideoIDs(ctx, []*models.Playlist{playlist}); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	playlists := make([]*models.Playlist, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&playlists).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachVideoIDs(ctx, playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *playlistRepository) attachVideoIDs(ctx context.Context, playlists []*models.Playlist) error {
	if len(playlists) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Playlist, len(playlists))
	ids := make([]uuid.UUID, 0, len(playlists))
	for _, p := range playlists {
		p.VideoIDs = []uuid.UUID{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	var entries []models.PlaylistVideo
	err := r.db.WithContext(ctx).
		Where("playlist_id IN ?", ids).
		Order("playlist_id").
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, e := range entries {
		if p, ok := byID[e.PlaylistID]; ok {
			p.VideoIDs = append(p.VideoIDs, e.VideoID)
		}
	}
	return nil
}

// UpdateOwned changes the non-empty fields among name and description.
func (r *playlistRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, name, description string) (*models.Playlist, error) {
	updates := map[string]any{}
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("Name or description is required")
	}

	res := r.db.WithContext(ctx).
		Model(&models.Playlist{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewOwnedNotFoundError("Playlist")
	}
	return r.GetByID(ctx, id)
}

func (r *playlistRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Playlist{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewOwnedNotFoundError("Playlist")
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *playlistRepository) HasVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AddVideo appends videoID at the end of the playlist. Callers serialize
// concurrent appends to one playlist; the composite key still rejects
// duplicates that slip through.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		err := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return models.NewInternalError(err)
		}

		entry := &models.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   maxPos + 1,
		}
		if err := tx.Create(entry).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewConflictError("Video already in playlist")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
}

// RemoveVideo deletes the entry if present. Removing an absent video is not an error.
func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
