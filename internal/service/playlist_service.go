package service

import (
	"context"
	"strings"

	"vidtube/internal/cache"
	"vidtube/internal/models"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	gate         *OwnershipGate
	locker       *cache.Locker
}

type CreatePlaylistInput struct {
	UserID      uuid.UUID
	Name        string
	Description string
}

type UpdatePlaylistInput struct {
	UserID      uuid.UUID
	PlaylistID  uuid.UUID
	Name        string
	Description string
}

// PlaylistEntryInput names one video inside one playlist.
type PlaylistEntryInput struct {
	UserID     uuid.UUID
	PlaylistID uuid.UUID
	VideoID    uuid.UUID
}

func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	gate *OwnershipGate,
	locker *cache.Locker,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		gate:         gate,
		locker:       locker,
	}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	playlist := &models.Playlist{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     in.UserID,
		VideoIDs:    []uuid.UUID{},
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) ListMine(ctx context.Context, userID uuid.UUID) ([]*models.Playlist, error) {
	playlists, err := s.playlistRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []*models.Playlist{}
	}
	return playlists, nil
}

// GetPlaylist returns the playlist with its videos in playlist order.
// Entries whose video no longer exists are skipped.
func (s *PlaylistService) GetPlaylist(ctx context.Context, id uuid.UUID) (*models.PlaylistWithVideos, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found, err := s.videoRepo.GetByIDs(ctx, playlist.VideoIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Video, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}

	videos := make([]*models.Video, 0, len(playlist.VideoIDs))
	for _, videoID := range playlist.VideoIDs {
		if v, ok := byID[videoID]; ok {
			videos = append(videos, v)
		}
	}
	return &models.PlaylistWithVideos{Playlist: *playlist, Videos: videos}, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, in UpdatePlaylistInput) (*models.Playlist, error) {
	if _, err := s.gate.Authorize(ctx, ResourcePlaylist, in.PlaylistID, in.UserID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" && description == "" {
		return nil, models.NewValidationError("Name or description is required")
	}
	return s.playlistRepo.UpdateOwned(ctx, in.PlaylistID, in.UserID, name, description)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, userID, playlistID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, ResourcePlaylist, playlistID, userID); err != nil {
		return err
	}
	return s.playlistRepo.DeleteOwned(ctx, playlistID, userID)
}

// AddVideo appends a video to the end of the playlist. Position assignment is
// serialized per playlist; the composite key still rejects duplicates when
// Redis is unavailable.
func (s *PlaylistService) AddVideo(ctx context.Context, in PlaylistEntryInput) (*models.PlaylistWithVideos, error) {
	if _, err := s.gate.Authorize(ctx, ResourcePlaylist, in.PlaylistID, in.UserID); err != nil {
		return nil, err
	}

	exists, err := s.videoRepo.Exists(ctx, in.VideoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Video", in.VideoID)
	}

	err = s.locker.WithLock(ctx, cache.PlaylistLockKey(in.PlaylistID), func() error {
		present, err := s.playlistRepo.HasVideo(ctx, in.PlaylistID, in.VideoID)
		if err != nil {
			return err
		}
		if present {
			return models.NewConflictError("Video already in playlist")
		}
		return s.playlistRepo.AddVideo(ctx, in.PlaylistID, in.VideoID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlaylist(ctx, in.PlaylistID)
}

// RemoveVideo drops a video from the playlist. Removing an absent video succeeds.
func (s *PlaylistService) RemoveVideo(ctx context.Context, in PlaylistEntryInput) (*models.PlaylistWithVideos, error) {
	if _, err := s.gate.Authorize(ctx, ResourcePlaylist, in.PlaylistID, in.UserID); err != nil {
		return nil, err
	}
	if err := s.playlistRepo.RemoveVideo(ctx, in.PlaylistID, in.VideoID); err != nil {
		return nil, err
	}
	return s.GetPlaylist(ctx, in.PlaylistID)
}
