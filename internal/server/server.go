// Package server contains the HTTP handlers for the VidTube API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "vidtube/docs" // swagger docs
	"vidtube/internal/bootstrap"
	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/featureflags"
	"vidtube/internal/media"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	store          media.Store
	notifier       *notifications.Notifier
	featureFlags   *featureflags.Manager

	videoService    *service.VideoService
	commentService  *service.CommentService
	likeService     *service.LikeService
	tweetService    *service.TweetService
	playlistService *service.PlaylistService
	channelService  *service.ChannelService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{EnsureDevUser: true})
	if err != nil {
		return nil, err
	}

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	return NewServerWithDeps(cfg, db, rdb, store, media.NewProber(cfg))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests pass a sqlite database, a nil or miniredis client and a local store.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	store media.Store,
	prober media.Prober,
) (*Server, error) {
	if store == nil {
		return nil, errors.New("media store is required")
	}

	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	gate := service.NewRepositoryOwnershipGate(videoRepo, commentRepo, tweetRepo, playlistRepo)
	notifier := notifications.NewNotifier(redisClient)
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("vidtube-api"),
		store:          store,
		notifier:       notifier,
		featureFlags:   flags,

		videoService:    service.NewVideoService(videoRepo, userRepo, gate, store, prober, notifier),
		commentService:  service.NewCommentService(commentRepo, videoRepo, gate, notifier),
		likeService:     service.NewLikeService(likeRepo, videoRepo, notifier, flags),
		tweetService:    service.NewTweetService(tweetRepo, userRepo, gate),
		playlistService: service.NewPlaylistService(playlistRepo, videoRepo, gate, cache.NewLocker(redisClient)),
		channelService:  service.NewChannelService(channelRepo, videoRepo, cfg.StatsCacheTTL()),
	}
	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Spans first so the logger and context handler can pick up the trace id
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				StatusCode: fiber.StatusTooManyRequests,
				Message:    "Too many requests, please try again later.",
				Code:       "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "VidTube Backend Metrics Dashboard",
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	if local, ok := s.localMediaDir(); ok {
		app.Static(s.config.MediaPublicBaseURL, local)
	}

	api := app.Group("/api", middleware.AuthRequired(s.config))

	// Define specific /:id/:resource routes BEFORE generic /:id route
	videos := api.Group("/videos")
	videos.Get("/", s.ListVideos)
	videos.Post("/", middleware.RateLimit(s.redis, 10, time.Hour, "publish_video"), s.PublishVideo)
	videos.Patch("/:videoId/publish", s.TogglePublish)
	videos.Get("/:videoId/comments", s.ListComments)
	videos.Post("/:videoId/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	videos.Get("/:videoId", s.GetVideo)
	videos.Patch("/:videoId", s.UpdateVideo)
	videos.Delete("/:videoId", s.DeleteVideo)

	comments := api.Group("/comments")
	comments.Patch("/:commentId", s.UpdateComment)
	comments.Delete("/:commentId", s.DeleteComment)

	likes := api.Group("/likes")
	likes.Post("/:kind/:targetId", middleware.RateLimit(
		s.redis, 60, time.Minute, "toggle_like"), s.ToggleLike)
	likes.Get("/:kind/:targetId", s.CountLikes)

	// /me routes before /:userId
	users := api.Group("/users")
	users.Get("/me/liked-videos", s.LikedVideos)
	users.Get("/:userId/tweets", s.UserTweets)

	tweets := api.Group("/tweets")
	tweets.Post("/", s.CreateTweet)
	tweets.Patch("/:tweetId", s.UpdateTweet)
	tweets.Delete("/:tweetId", s.DeleteTweet)

	playlists := api.Group("/playlists")
	playlists.Post("/", s.CreatePlaylist)
	playlists.Get("/", s.MyPlaylists)
	playlists.Post("/:playlistId/videos/:videoId", s.AddVideoToPlaylist)
	playlists.Delete("/:playlistId/videos/:videoId", s.RemoveVideoFromPlaylist)
	playlists.Get("/:playlistId", s.GetPlaylist)
	playlists.Patch("/:playlistId", s.UpdatePlaylist)
	playlists.Delete("/:playlistId", s.DeletePlaylist)

	channels := api.Group("/channels")
	channels.Get("/:channelId/stats", s.ChannelStats)
	channels.Get("/:channelId/videos", s.ChannelVideos)
}

func (s *Server) localMediaDir() (string, bool) {
	if s.config.MediaPublicBaseURL == "" {
		return "", false
	}
	store := s.store
	if b, ok := store.(*media.BreakerStore); ok {
		store = b.Inner()
	}
	local, ok := store.(*media.LocalStore)
	if !ok {
		return "", false
	}
	return local.Dir(), true
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it the cache, locks and rate limits degrade.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	checks := fiber.Map{
		"database": dbStatus,
		"redis":    redisStatus,
		"media":    s.store.Name(),
	}
	if b, ok := s.store.(*media.BreakerStore); ok {
		checks["mediaBreaker"] = b.State()
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": checks,
		"time":   time.Now(),
	})
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "VidTube API",
		BodyLimit:    s.config.MaxUploadBytes(),
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler with the failure envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code < fiber.StatusInternalServerError:
			code = models.CodeValidation
		}
		return models.RespondWithError(c, fe.Code, &models.AppError{Code: code, Message: fe.Message})
	}
	return models.RespondWithAppError(c, err)
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.redis != nil {
		go func() {
			err := s.notifier.StartEngagementSubscriber(s.shutdownCtx, func(channel, payload string) {
				middleware.Logger.Debug("engagement event",
					slog.String("channel", channel),
					slog.String("payload", payload),
				)
			})
			if err != nil {
				middleware.Logger.Warn("failed to start engagement subscriber", slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the subscriber goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
