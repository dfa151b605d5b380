package service

import (
	"context"
	"errors"
	"fmt"

	"vidtube/internal/models"
	"vidtube/internal/observability"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

// ResourceKind names a resource type guarded by the ownership gate.
type ResourceKind string

const (
	ResourceComment  ResourceKind = "comment"
	ResourcePlaylist ResourceKind = "playlist"
	ResourceTweet    ResourceKind = "tweet"
	ResourceVideo    ResourceKind = "video"
)

// Label is the capitalized name used in error messages.
func (k ResourceKind) Label() string {
	if k == "" {
		return ""
	}
	return string(k[0]-'a'+'A') + string(k[1:])
}

// OwnedLoader fetches a resource by id. It must return a NOT_FOUND AppError
// (or wrap models.ErrNotFound) when nothing matches.
type OwnedLoader func(ctx context.Context, id uuid.UUID) (models.Owned, error)

// OwnershipGate decides whether a caller may mutate a resource. Not-found and
// not-owner outcomes carry the same message so the response does not leak
// whether someone else's resource exists.
type OwnershipGate struct {
	loaders map[ResourceKind]OwnedLoader
}

func NewOwnershipGate() *OwnershipGate {
	return &OwnershipGate{loaders: make(map[ResourceKind]OwnedLoader)}
}

// NewRepositoryOwnershipGate registers loaders for every owned resource kind.
func NewRepositoryOwnershipGate(
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	playlists repository.PlaylistRepository,
) *OwnershipGate {
	g := NewOwnershipGate()
	g.Register(ResourceVideo, loaderFor(videos.GetByID))
	g.Register(ResourceComment, loaderFor(comments.GetByID))
	g.Register(ResourceTweet, loaderFor(tweets.GetByID))
	g.Register(ResourcePlaylist, loaderFor(playlists.GetByID))
	return g
}

func loaderFor[T models.Owned](get func(context.Context, uuid.UUID) (T, error)) OwnedLoader {
	return func(ctx context.Context, id uuid.UUID) (models.Owned, error) {
		resource, err := get(ctx, id)
		if err != nil {
			return nil, err
		}
		return resource, nil
	}
}

// Register installs the loader for kind, replacing any previous one.
func (g *OwnershipGate) Register(kind ResourceKind, loader OwnedLoader) {
	g.loaders[kind] = loader
}

// Authorize loads the resource and checks that callerID owns it.
func (g *OwnershipGate) Authorize(ctx context.Context, kind ResourceKind, id, callerID uuid.UUID) (models.Owned, error) {
	loader, ok := g.loaders[kind]
	if !ok {
		return nil, models.NewInternalError(fmt.Errorf("no ownership loader for %q", kind))
	}

	resource, err := loader(ctx, id)
	if err != nil {
		if isNotFound(err) {
			observability.OwnershipDenied.WithLabelValues(string(kind), "not_found").Inc()
			return nil, models.NewOwnedNotFoundError(kind.Label())
		}
		return nil, err
	}
	if resource.OwnerOf() != callerID {
		observability.OwnershipDenied.WithLabelValues(string(kind), "not_owner").Inc()
		return nil, models.NewNotOwnerError(kind.Label())
	}
	return resource, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound) || models.IsCode(err, models.CodeNotFound)
}
