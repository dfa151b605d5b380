package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/pagination"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	gate        *OwnershipGate
	events      EventPublisher
}

type CreateCommentInput struct {
	UserID  uuid.UUID
	VideoID uuid.UUID
	Content string
}

type UpdateCommentInput struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
	Content   string
}

type DeleteCommentInput struct {
	UserID    uuid.UUID
	CommentID uuid.UUID
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	gate *OwnershipGate,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		gate:        gate,
		events:      events,
	}
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return "", models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}
	return content, nil
}

// ListComments pages through a video's comments. An unknown video yields an empty page.
func (s *CommentService) ListComments(
	ctx context.Context, videoID uuid.UUID, p pagination.Params,
) (*pagination.Page[models.Comment], error) {
	page, err := s.commentRepo.ListByVideo(ctx, videoID, p)
	if err != nil {
		return nil, err
	}
	return page.WithLabels(pagination.Labels{Items: "comments"}), nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	exists, err := s.videoRepo.Exists(ctx, in.VideoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Video", in.VideoID)
	}

	comment := &models.Comment{
		Content: content,
		VideoID: in.VideoID,
		OwnerID: in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.Event{
		Type:       notifications.EventCommentAdded,
		TargetKind: string(models.TargetVideo),
		TargetID:   in.VideoID,
		ActorID:    in.UserID,
	})
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if _, err := s.gate.Authorize(ctx, ResourceComment, in.CommentID, in.UserID); err != nil {
		return nil, err
	}
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.UpdateOwned(ctx, in.CommentID, in.UserID, content)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if _, err := s.gate.Authorize(ctx, ResourceComment, in.CommentID, in.UserID); err != nil {
		return err
	}
	return s.commentRepo.DeleteOwned(ctx, in.CommentID, in.UserID)
}
