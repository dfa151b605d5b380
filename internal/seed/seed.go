package seed

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"vidtube/internal/database"
	"vidtube/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	VideosPerUser      int
	CommentsPerVideo   int
	TweetsPerUser      int
	PlaylistsPerUser   int
	SubscriptionsRatio float64 // fraction of other channels each user follows
	LikeRatio          float64 // chance that a given user likes a given video

	MaxDays      int
	MediaBaseURL string
	RandSeed     int64
	SkipBcrypt   bool
	DryRun       bool
}

// Presets are named option sets for the seed command.
var Presets = map[string]Options{
	"small": {
		NumUsers: 5, VideosPerUser: 2, CommentsPerVideo: 2, TweetsPerUser: 2,
		PlaylistsPerUser: 1, SubscriptionsRatio: 0.5, LikeRatio: 0.3,
	},
	"demo": {
		NumUsers: 25, VideosPerUser: 4, CommentsPerVideo: 5, TweetsPerUser: 3,
		PlaylistsPerUser: 2, SubscriptionsRatio: 0.3, LikeRatio: 0.2,
	},
	"large": {
		NumUsers: 200, VideosPerUser: 8, CommentsPerVideo: 10, TweetsPerUser: 10,
		PlaylistsPerUser: 3, SubscriptionsRatio: 0.1, LikeRatio: 0.05, SkipBcrypt: true,
	},
}

// PresetNames lists the available presets in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary counts what a run created.
type Summary struct {
	Users         int
	Subscriptions int
	Videos        int
	Comments      int
	Tweets        int
	Likes         int
	Playlists     int
}

func (s Summary) String() string {
	return fmt.Sprintf("users=%d subscriptions=%d videos=%d comments=%d tweets=%d likes=%d playlists=%d",
		s.Users, s.Subscriptions, s.Videos, s.Comments, s.Tweets, s.Likes, s.Playlists)
}

// Seeder populates the database through a Factory.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ApplyPreset returns the preset's options with the caller's run settings
// (seed, media base, dry run) carried over.
func ApplyPreset(name string, base Options) (Options, error) {
	preset, ok := Presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	preset.MaxDays = base.MaxDays
	preset.MediaBaseURL = base.MediaBaseURL
	preset.RandSeed = base.RandSeed
	preset.DryRun = base.DryRun
	preset.SkipBcrypt = preset.SkipBcrypt || base.SkipBcrypt
	return preset, nil
}

// ClearAll deletes every row from the application tables, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.opts.DryRun || s.db == nil {
		return nil
	}
	log.Println("🗑️  Clearing existing data...")

	tables := database.PersistentModels()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(tables) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(tables[i]).Error; err != nil {
				return fmt.Errorf("clear %T: %w", tables[i], err)
			}
		}
		return nil
	})
}

// Run creates users, then their channels' content, then the engagement
// between them. Counts in opts are per user or per video as named.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	f := s.factory
	sum := &Summary{}
	log.Printf("🌱 Seeding %d users...", s.opts.NumUsers)

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	for _, subscriber := range users {
		for _, channel := range users {
			if subscriber.ID == channel.ID || !f.chance(s.opts.SubscriptionsRatio) {
				continue
			}
			if err := f.Subscribe(ctx, subscriber, channel); err != nil {
				return sum, fmt.Errorf("subscribe: %w", err)
			}
			sum.Subscriptions++
		}
	}

	var videos []*models.Video
	for _, owner := range users {
		for i := 0; i < s.opts.VideosPerUser; i++ {
			v, err := f.CreateVideo(ctx, owner)
			if err != nil {
				return sum, fmt.Errorf("create video: %w", err)
			}
			videos = append(videos, v)
		}
		for i := 0; i < s.opts.TweetsPerUser; i++ {
			if _, err := f.CreateTweet(ctx, owner); err != nil {
				return sum, fmt.Errorf("create tweet: %w", err)
			}
			sum.Tweets++
		}
	}
	sum.Videos = len(videos)
	log.Printf("✓ %d videos and %d tweets created", sum.Videos, sum.Tweets)

	if len(users) == 0 {
		return sum, nil
	}

	for _, v := range videos {
		for i := 0; i < s.opts.CommentsPerVideo; i++ {
			author := users[f.faker.Number(0, len(users)-1)]
			c, err := f.CreateComment(ctx, author, v)
			if err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++

			if !f.chance(s.opts.LikeRatio) {
				continue
			}
			liker := users[f.faker.Number(0, len(users)-1)]
			added, err := f.Like(ctx, liker, models.TargetComment, c.ID)
			if err != nil {
				return sum, fmt.Errorf("like comment: %w", err)
			}
			if added {
				sum.Likes++
			}
		}

		for _, u := range users {
			if !f.chance(s.opts.LikeRatio) {
				continue
			}
			added, err := f.Like(ctx, u, models.TargetVideo, v.ID)
			if err != nil {
				return sum, fmt.Errorf("like video: %w", err)
			}
			if added {
				sum.Likes++
			}
		}
	}
	log.Printf("✓ %d comments and %d likes created", sum.Comments, sum.Likes)

	if len(videos) > 0 {
		for _, owner := range users {
			for i := 0; i < s.opts.PlaylistsPerUser; i++ {
				if _, err := f.CreatePlaylist(ctx, owner, f.pick(videos, 5)); err != nil {
					return sum, fmt.Errorf("create playlist: %w", err)
				}
				sum.Playlists++
			}
		}
	}

	log.Printf("🎉 Seeding complete: %s", sum)
	return sum, nil
}
