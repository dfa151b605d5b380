package service

import (
	"context"

	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/pagination"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

// videoRepoStub is a stub for repository.VideoRepository.
type videoRepoStub struct {
	createFn         func(context.Context, *models.Video) error
	getByIDFn        func(context.Context, uuid.UUID) (*models.Video, error)
	getByIDsFn       func(context.Context, []uuid.UUID) ([]*models.Video, error)
	existsFn         func(context.Context, uuid.UUID) (bool, error)
	listFn           func(context.Context, repository.VideoFilter, pagination.Params) (*pagination.Page[models.Video], error)
	listByOwnerFn    func(context.Context, uuid.UUID) ([]*models.Video, error)
	updateOwnedFn    func(context.Context, uuid.UUID, uuid.UUID, repository.VideoUpdate) (*models.Video, error)
	togglePublishFn  func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	deleteOwnedFn    func(context.Context, uuid.UUID, uuid.UUID) error
	incrementViewsFn func(context.Context, uuid.UUID) error
}

func (s *videoRepoStub) Create(ctx context.Context, v *models.Video) error { return s.createFn(ctx, v) }
func (s *videoRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	return s.getByIDFn(ctx, id)
}
func (s *videoRepoStub) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Video, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *videoRepoStub) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *videoRepoStub) List(
	ctx context.Context, f repository.VideoFilter, p pagination.Params,
) (*pagination.Page[models.Video], error) {
	return s.listFn(ctx, f, p)
}
func (s *videoRepoStub) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Video, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *videoRepoStub) UpdateOwned(
	ctx context.Context, id, ownerID uuid.UUID, in repository.VideoUpdate,
) (*models.Video, error) {
	return s.updateOwnedFn(ctx, id, ownerID, in)
}
func (s *videoRepoStub) TogglePublishOwned(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	return s.togglePublishFn(ctx, id, ownerID)
}
func (s *videoRepoStub) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.deleteOwnedFn(ctx, id, ownerID)
}
func (s *videoRepoStub) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.incrementViewsFn(ctx, id)
}

func noopVideoRepo() *videoRepoStub {
	return &videoRepoStub{
		createFn: func(_ context.Context, _ *models.Video) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Video, error) {
			return &models.Video{ID: id}, nil
		},
		getByIDsFn: func(_ context.Context, _ []uuid.UUID) ([]*models.Video, error) { return nil, nil },
		existsFn:   func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		listFn: func(_ context.Context, _ repository.VideoFilter, p pagination.Params) (*pagination.Page[models.Video], error) {
			return pagination.NewPage[models.Video](nil, 0, p), nil
		},
		listByOwnerFn: func(_ context.Context, _ uuid.UUID) ([]*models.Video, error) { return nil, nil },
		updateOwnedFn: func(_ context.Context, id, ownerID uuid.UUID, in repository.VideoUpdate) (*models.Video, error) {
			return &models.Video{ID: id, OwnerID: ownerID, Title: in.Title, Description: in.Description}, nil
		},
		togglePublishFn:  func(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil },
		deleteOwnedFn:    func(_ context.Context, _, _ uuid.UUID) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uuid.UUID) (*models.Comment, error)
	listByVideoFn func(context.Context, uuid.UUID, pagination.Params) (*pagination.Page[models.Comment], error)
	updateOwnedFn func(context.Context, uuid.UUID, uuid.UUID, string) (*models.Comment, error)
	deleteOwnedFn func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByVideo(
	ctx context.Context, videoID uuid.UUID, p pagination.Params,
) (*pagination.Page[models.Comment], error) {
	return s.listByVideoFn(ctx, videoID, p)
}
func (s *commentRepoStub) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Comment, error) {
	return s.updateOwnedFn(ctx, id, ownerID, content)
}
func (s *commentRepoStub) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.deleteOwnedFn(ctx, id, ownerID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByVideoFn: func(_ context.Context, _ uuid.UUID, p pagination.Params) (*pagination.Page[models.Comment], error) {
			return pagination.NewPage[models.Comment](nil, 0, p), nil
		},
		updateOwnedFn: func(_ context.Context, id, ownerID uuid.UUID, content string) (*models.Comment, error) {
			return &models.Comment{ID: id, OwnerID: ownerID, Content: content}, nil
		},
		deleteOwnedFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
}

// tweetRepoStub is a stub for repository.TweetRepository.
type tweetRepoStub struct {
	createFn      func(context.Context, *models.Tweet) error
	getByIDFn     func(context.Context, uuid.UUID) (*models.Tweet, error)
	listByOwnerFn func(context.Context, uuid.UUID) ([]*models.Tweet, error)
	updateOwnedFn func(context.Context, uuid.UUID, uuid.UUID, string) (*models.Tweet, error)
	deleteOwnedFn func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *tweetRepoStub) Create(ctx context.Context, t *models.Tweet) error { return s.createFn(ctx, t) }
func (s *tweetRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tweetRepoStub) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Tweet, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *tweetRepoStub) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Tweet, error) {
	return s.updateOwnedFn(ctx, id, ownerID, content)
}
func (s *tweetRepoStub) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.deleteOwnedFn(ctx, id, ownerID)
}

func noopTweetRepo() *tweetRepoStub {
	return &tweetRepoStub{
		createFn: func(_ context.Context, _ *models.Tweet) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Tweet, error) {
			return &models.Tweet{ID: id}, nil
		},
		listByOwnerFn: func(_ context.Context, _ uuid.UUID) ([]*models.Tweet, error) { return nil, nil },
		updateOwnedFn: func(_ context.Context, id, ownerID uuid.UUID, content string) (*models.Tweet, error) {
			return &models.Tweet{ID: id, OwnerID: ownerID, Content: content}, nil
		},
		deleteOwnedFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
}

// playlistRepoStub is a stub for repository.PlaylistRepository.
type playlistRepoStub struct {
	createFn      func(context.Context, *models.Playlist) error
	getByIDFn     func(context.Context, uuid.UUID) (*models.Playlist, error)
	listByOwnerFn func(context.Context, uuid.UUID) ([]*models.Playlist, error)
	updateOwnedFn func(context.Context, uuid.UUID, uuid.UUID, string, string) (*models.Playlist, error)
	deleteOwnedFn func(context.Context, uuid.UUID, uuid.UUID) error
	hasVideoFn    func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	addVideoFn    func(context.Context, uuid.UUID, uuid.UUID) error
	removeVideoFn func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *playlistRepoStub) Create(ctx context.Context, p *models.Playlist) error {
	return s.createFn(ctx, p)
}
func (s *playlistRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	return s.getByIDFn(ctx, id)
}
func (s *playlistRepoStub) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Playlist, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *playlistRepoStub) UpdateOwned(
	ctx context.Context, id, ownerID uuid.UUID, name, description string,
) (*models.Playlist, error) {
	return s.updateOwnedFn(ctx, id, ownerID, name, description)
}
func (s *playlistRepoStub) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.deleteOwnedFn(ctx, id, ownerID)
}
func (s *playlistRepoStub) HasVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	return s.hasVideoFn(ctx, playlistID, videoID)
}
func (s *playlistRepoStub) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	return s.addVideoFn(ctx, playlistID, videoID)
}
func (s *playlistRepoStub) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	return s.removeVideoFn(ctx, playlistID, videoID)
}

func noopPlaylistRepo() *playlistRepoStub {
	return &playlistRepoStub{
		createFn: func(_ context.Context, _ *models.Playlist) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Playlist, error) {
			return &models.Playlist{ID: id}, nil
		},
		listByOwnerFn: func(_ context.Context, _ uuid.UUID) ([]*models.Playlist, error) { return nil, nil },
		updateOwnedFn: func(_ context.Context, id, ownerID uuid.UUID, name, description string) (*models.Playlist, error) {
			return &models.Playlist{ID: id, OwnerID: ownerID, Name: name, Description: description}, nil
		},
		deleteOwnedFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
		hasVideoFn:    func(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil },
		addVideoFn:    func(_ context.Context, _, _ uuid.UUID) error { return nil },
		removeVideoFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	removeFn          func(context.Context, uuid.UUID, models.LikeTarget) (bool, error)
	addFn             func(context.Context, *models.Like) (bool, error)
	countForFn        func(context.Context, models.LikeTarget) (int64, error)
	listLikedVideosFn func(context.Context, uuid.UUID) ([]*models.Video, error)
	targetExistsFn    func(context.Context, models.LikeTarget) (bool, error)
}

func (s *likeRepoStub) Remove(ctx context.Context, likedBy uuid.UUID, target models.LikeTarget) (bool, error) {
	return s.removeFn(ctx, likedBy, target)
}
func (s *likeRepoStub) Add(ctx context.Context, like *models.Like) (bool, error) {
	return s.addFn(ctx, like)
}
func (s *likeRepoStub) CountFor(ctx context.Context, target models.LikeTarget) (int64, error) {
	return s.countForFn(ctx, target)
}
func (s *likeRepoStub) ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]*models.Video, error) {
	return s.listLikedVideosFn(ctx, userID)
}
func (s *likeRepoStub) TargetExists(ctx context.Context, target models.LikeTarget) (bool, error) {
	return s.targetExistsFn(ctx, target)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		removeFn:          func(_ context.Context, _ uuid.UUID, _ models.LikeTarget) (bool, error) { return false, nil },
		addFn:             func(_ context.Context, _ *models.Like) (bool, error) { return true, nil },
		countForFn:        func(_ context.Context, _ models.LikeTarget) (int64, error) { return 0, nil },
		listLikedVideosFn: func(_ context.Context, _ uuid.UUID) ([]*models.Video, error) { return nil, nil },
		targetExistsFn:    func(_ context.Context, _ models.LikeTarget) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uuid.UUID) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	existsFn          func(context.Context, uuid.UUID) (bool, error)
	createFn          func(context.Context, *models.User) error
	setWatchHistoryFn func(context.Context, uuid.UUID, uuid.UUID) error
	listFn            func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) SetWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	return s.setWatchHistoryFn(ctx, userID, videoID)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{Username: username}, nil
		},
		existsFn:          func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		createFn:          func(_ context.Context, _ *models.User) error { return nil },
		setWatchHistoryFn: func(_ context.Context, _, _ uuid.UUID) error { return nil },
		listFn:            func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// channelRepoStub is a stub for repository.ChannelRepository.
type channelRepoStub struct {
	statsFn func(context.Context, uuid.UUID) (*models.ChannelStats, error)
}

func (s *channelRepoStub) Stats(ctx context.Context, channelID uuid.UUID) (*models.ChannelStats, error) {
	return s.statsFn(ctx, channelID)
}

// publisherStub records published events.
type publisherStub struct {
	events []notifications.Event
	err    error
}

func (p *publisherStub) Publish(_ context.Context, evt notifications.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

// gateFor returns a gate whose loaders all report ownerID as the owner.
func gateFor(ownerID uuid.UUID) *OwnershipGate {
	g := NewOwnershipGate()
	for _, kind := range []ResourceKind{ResourceComment, ResourcePlaylist, ResourceTweet, ResourceVideo} {
		g.Register(kind, func(_ context.Context, id uuid.UUID) (models.Owned, error) {
			return &models.Video{ID: id, OwnerID: ownerID}, nil
		})
	}
	return g
}
