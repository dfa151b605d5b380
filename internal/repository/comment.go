package repository

import (
	"context"

	"vidtube/internal/models"
	"vidtube/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentSortFields are the sort names accepted by the comment listing.
var CommentSortFields = pagination.SortFields{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID, p pagination.Params) (*pagination.Page[models.Comment], error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Comment, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return findByID[models.Comment](ctx, r.db, "Comment", id)
}

func (r *commentRepository) ListByVideo(
	ctx context.Context,
	videoID uuid.UUID,
	p pagination.Params,
) (*pagination.Page[models.Comment], error) {
	query := r.db.Model(&models.Comment{}).Where("video_id = ?", videoID)
	page, err := pagination.Paginate[models.Comment](ctx, query, p)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return page, nil
}

func (r *commentRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewOwnedNotFoundError("Comment")
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Comment{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewOwnedNotFoundError("Comment")
	}
	return nil
}
