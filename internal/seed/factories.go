// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is given to every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them through the repositories.
// It is a thin helper used by the Seeder and tests.
type Factory struct {
	opts  Options
	faker *gofakeit.Faker

	users      *service.UserService
	userRepo   repository.UserRepository
	subs       repository.SubscriptionRepository
	videos     repository.VideoRepository
	comments   repository.CommentRepository
	tweets     repository.TweetRepository
	likes      repository.LikeRepository
	playlists  repository.PlaylistRepository
	presetHash string
	userSeq    int
}

// NewFactory creates a new Factory bound to the provided Gorm DB. db may be
// nil in DryRun mode.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := &Factory{opts: opts, faker: gofakeit.New(seed)}
	if db == nil {
		return f
	}

	f.userRepo = repository.NewUserRepository(db)
	f.users = service.NewUserService(f.userRepo)
	f.subs = repository.NewSubscriptionRepository(db)
	f.videos = repository.NewVideoRepository(db)
	f.comments = repository.NewCommentRepository(db)
	f.tweets = repository.NewTweetRepository(db)
	f.likes = repository.NewLikeRepository(db)
	f.playlists = repository.NewPlaylistRepository(db)
	return f
}

func (f *Factory) persist() bool {
	return !f.opts.DryRun && f.userRepo != nil
}

// createdAt spreads timestamps over the last MaxDays days.
func (f *Factory) createdAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-back).UTC()
}

// BuildUserInput returns credentials for a fresh account. The numeric suffix
// keeps usernames unique across a run.
func (f *Factory) BuildUserInput() service.CreateUserInput {
	f.userSeq++
	base := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(f.faker.Username()))
	if len(base) < 3 {
		base = "viewer"
	}
	username := fmt.Sprintf("%s_%d", base, f.userSeq)
	if len(username) > 30 {
		username = username[len(username)-30:]
	}
	return service.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: f.faker.Name(),
		Password: DefaultPassword,
	}
}

// CreateUser persists an account through UserService so seeded users pass the
// same validation as real ones. With SkipBcrypt the password is hashed once
// and reused, which keeps large runs fast.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*service.CreateUserInput)) (*models.User, error) {
	in := f.BuildUserInput()
	for _, override := range overrides {
		override(&in)
	}

	if !f.persist() {
		return &models.User{ID: uuid.New(), Username: in.Username, Email: in.Email, FullName: in.FullName}, nil
	}
	if !f.opts.SkipBcrypt {
		return f.users.CreateUser(ctx, in)
	}

	if f.presetHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		f.presetHash = string(hash)
	}
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: f.presetHash,
		AvatarURL:    "https://i.pravatar.cc/150?u=" + in.Username,
	}
	if err := f.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Subscribe makes subscriber follow channel.
func (f *Factory) Subscribe(ctx context.Context, subscriber, channel *models.User) error {
	if !f.persist() {
		return nil
	}
	return f.subs.Subscribe(ctx, subscriber.ID, channel.ID)
}

// BuildVideo constructs a video owned by owner without persisting it. The
// media URLs point at picsum and a placeholder path since no files are uploaded.
func (f *Factory) BuildVideo(owner *models.User, overrides ...func(*models.Video)) *models.Video {
	id := uuid.New()
	title := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), ".")
	video := &models.Video{
		ID:           id,
		OwnerID:      owner.ID,
		Title:        title,
		Description:  f.faker.Paragraph(1, 3, 8, " "),
		VideoURL:     fmt.Sprintf("%s/videos/%s.mp4", f.mediaBase(), id),
		ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/640/360", id),
		Duration:     float64(f.faker.Number(15, 1800)),
		Views:        int64(f.faker.Number(0, 50000)),
		IsPublished:  f.faker.Number(1, 10) > 1,
		CreatedAt:    f.createdAt(),
	}
	for _, override := range overrides {
		override(video)
	}
	return video
}

func (f *Factory) mediaBase() string {
	if f.opts.MediaBaseURL != "" {
		return strings.TrimRight(f.opts.MediaBaseURL, "/")
	}
	return "/media"
}

// CreateVideo builds and persists a video.
func (f *Factory) CreateVideo(ctx context.Context, owner *models.User, overrides ...func(*models.Video)) (*models.Video, error) {
	video := f.BuildVideo(owner, overrides...)
	if !f.persist() {
		return video, nil
	}
	if err := f.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// CreateComment persists a comment by author on video.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, video *models.Video) (*models.Comment, error) {
	comment := &models.Comment{
		Content: f.faker.Sentence(f.faker.Number(4, 20)),
		VideoID: video.ID,
		OwnerID: author.ID,
	}
	if !f.persist() {
		comment.ID = uuid.New()
		return comment, nil
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateTweet persists a short post on author's channel.
func (f *Factory) CreateTweet(ctx context.Context, author *models.User) (*models.Tweet, error) {
	content := f.faker.Sentence(f.faker.Number(5, 25))
	if len(content) > models.MaxTweetLength {
		content = content[:models.MaxTweetLength]
	}
	tweet := &models.Tweet{Content: content, OwnerID: author.ID}
	if !f.persist() {
		tweet.ID = uuid.New()
		return tweet, nil
	}
	if err := f.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// Like records that user likes target. It reports false when the like already existed.
func (f *Factory) Like(ctx context.Context, user *models.User, kind models.TargetKind, targetID uuid.UUID) (bool, error) {
	if !f.persist() {
		return true, nil
	}
	return f.likes.Add(ctx, &models.Like{
		LikedBy: user.ID,
		Target:  models.LikeTarget{Kind: kind, ID: targetID},
	})
}

// CreatePlaylist persists a playlist for owner containing videos in order.
func (f *Factory) CreatePlaylist(ctx context.Context, owner *models.User, videos []*models.Video) (*models.Playlist, error) {
	playlist := &models.Playlist{
		Name:        fmt.Sprintf("%s's picks #%d", f.faker.FirstName(), f.faker.Number(1, 99)),
		Description: f.faker.Sentence(8),
		OwnerID:     owner.ID,
	}
	if !f.persist() {
		playlist.ID = uuid.New()
		for _, v := range videos {
			playlist.VideoIDs = append(playlist.VideoIDs, v.ID)
		}
		return playlist, nil
	}

	if err := f.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	for _, v := range videos {
		if err := f.playlists.AddVideo(ctx, playlist.ID, v.ID); err != nil {
			if models.IsCode(err, models.CodeConflict) {
				continue
			}
			return nil, err
		}
		playlist.VideoIDs = append(playlist.VideoIDs, v.ID)
	}
	return playlist, nil
}

func (f *Factory) chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return f.faker.Float64Range(0, 1) < p
}

// pick returns up to n distinct items from items in random order.
func (f *Factory) pick(items []*models.Video, n int) []*models.Video {
	shuffled := make([]*models.Video, len(items))
	copy(shuffled, items)
	f.faker.ShuffleAnySlice(shuffled)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
