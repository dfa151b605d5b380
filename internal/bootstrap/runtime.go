// Package bootstrap wires the process-wide runtime: database, Redis and the
// optional development account.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	EnsureDevUser bool
}

// InitRuntime connects to DB and Redis and optionally creates the development account.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	// Connect DB
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.EnsureDevUser {
		if _, err := EnsureDevUser(ctx, cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to bootstrap development user: %w", err)
		}
	}

	return db, r, nil
}

// EnsureDevUser creates the DEV_USERNAME account when running in development
// with DEV_BOOTSTRAP_USER set. It is a no-op everywhere else and when the
// account already exists. The returned user is nil when nothing was ensured.
func EnsureDevUser(ctx context.Context, cfg *config.Config, db *gorm.DB) (*models.User, error) {
	if cfg == nil || db == nil {
		return nil, nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapUser {
		return nil, nil
	}

	username := strings.ToLower(strings.TrimSpace(cfg.DevUsername))
	if username == "" {
		username = "vidtube_dev"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevEmail))
	if email == "" {
		email = "dev@vidtube.local"
	}
	if cfg.DevPassword == "" {
		return nil, fmt.Errorf("DEV_PASSWORD must be set when DEV_BOOTSTRAP_USER is enabled")
	}

	repo := repository.NewUserRepository(db)
	existing, err := repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return existing, nil
	case !models.IsCode(err, models.CodeNotFound):
		return nil, err
	}

	user, err := service.NewUserService(repo).CreateUser(ctx, service.CreateUserInput{
		Username: username,
		Email:    email,
		FullName: "Development User",
		Password: cfg.DevPassword,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("development user bootstrap ensured for %s (%s)", user.Username, user.ID)
	return user, nil
}
