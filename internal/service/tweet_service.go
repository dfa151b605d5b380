package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"vidtube/internal/models"
	"vidtube/internal/repository"

	"github.com/google/uuid"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	gate      *OwnershipGate
}

type CreateTweetInput struct {
	UserID  uuid.UUID
	Content string
}

type UpdateTweetInput struct {
	UserID  uuid.UUID
	TweetID uuid.UUID
	Content string
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	userRepo repository.UserRepository,
	gate *OwnershipGate,
) *TweetService {
	return &TweetService{
		tweetRepo: tweetRepo,
		userRepo:  userRepo,
		gate:      gate,
	}
}

func validateTweetContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxTweetLength {
		return "", models.NewValidationError(fmt.Sprintf("Tweet too long (max %d characters)", models.MaxTweetLength))
	}
	return content, nil
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	content, err := validateTweetContent(in.Content)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", in.UserID)
	}

	tweet := &models.Tweet{Content: content, OwnerID: in.UserID}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// ListUserTweets returns every tweet of userID, newest first.
func (s *TweetService) ListUserTweets(ctx context.Context, userID uuid.UUID) ([]*models.Tweet, error) {
	tweets, err := s.tweetRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tweets == nil {
		tweets = []*models.Tweet{}
	}
	return tweets, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	if _, err := s.gate.Authorize(ctx, ResourceTweet, in.TweetID, in.UserID); err != nil {
		return nil, err
	}
	content, err := validateTweetContent(in.Content)
	if err != nil {
		return nil, err
	}
	return s.tweetRepo.UpdateOwned(ctx, in.TweetID, in.UserID, content)
}

func (s *TweetService) DeleteTweet(ctx context.Context, userID, tweetID uuid.UUID) error {
	if _, err := s.gate.Authorize(ctx, ResourceTweet, tweetID, userID); err != nil {
		return err
	}
	return s.tweetRepo.DeleteOwned(ctx, tweetID, userID)
}
