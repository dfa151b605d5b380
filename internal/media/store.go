// Package media stores uploaded video and thumbnail files and reads their metadata.
package media

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"vidtube/internal/config"

	"github.com/google/uuid"
)

// Folders used for object keys.
const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
)

// Upload is a file received from a client and spooled to local disk.
type Upload struct {
	Path        string
	Filename    string
	ContentType string
}

// Store persists uploads and returns the URL clients fetch them from.
type Store interface {
	Put(ctx context.Context, key string, u Upload) (string, error)
	Name() string
}

// ObjectKey builds a collision-free key under folder that keeps the
// original file extension.
func ObjectKey(folder, filename string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
}

// NewStore builds the configured backend wrapped in a circuit breaker.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		inner Store
		err   error
	)
	switch cfg.MediaBackend {
	case "", "local":
		inner, err = NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicBaseURL)
	case "s3":
		inner, err = NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			ForcePathStyle:  cfg.S3ForcePathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
	if err != nil {
		return nil, err
	}

	return NewBreakerStore(inner, BreakerSettings{
		MaxFailures: uint32(max(cfg.MediaBreakerMaxFailures, 1)),
		OpenTimeout: time.Duration(cfg.MediaBreakerTimeoutSeconds) * time.Second,
	}), nil
}

// NewProber returns the ffprobe-backed prober, or one that reports zero
// durations when probing is disabled.
func NewProber(cfg *config.Config) Prober {
	if !cfg.MediaProbeEnabled {
		return NoopProber{}
	}
	return NewFFProbe(defaultProbeTimeout)
}
