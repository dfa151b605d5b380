// Command main runs the database seeder for VidTube.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	videosPerUser := flag.Int("videos", 3, "Videos per user")
	commentsPerVideo := flag.Int("comments", 4, "Comments per video")
	tweetsPerUser := flag.Int("tweets", 3, "Tweets per user")
	playlistsPerUser := flag.Int("playlists", 1, "Playlists per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a seeder preset ("+strings.Join(seed.PresetNames(), ", ")+")")
	fast := flag.Bool("fast", false, "Hash the shared password once instead of per user")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing to the database")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := seed.Options{
		NumUsers:           *numUsers,
		VideosPerUser:      *videosPerUser,
		CommentsPerVideo:   *commentsPerVideo,
		TweetsPerUser:      *tweetsPerUser,
		PlaylistsPerUser:   *playlistsPerUser,
		SubscriptionsRatio: 0.3,
		LikeRatio:          0.2,
		MaxDays:            90,
		MediaBaseURL:       cfg.MediaPublicBaseURL,
		RandSeed:           *randSeed,
		SkipBcrypt:         *fast,
		DryRun:             *dryRun,
	}
	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring count flags)\n", *preset)
		if opts, err = seed.ApplyPreset(*preset, opts); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, opts)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(ctx); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s\n", seed.DefaultPassword)
}
