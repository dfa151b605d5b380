package service

import (
	"context"
	"net/url"
	"strings"

	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

type UserService struct {
	userRepo repository.UserRepository
}

// CreateUserInput is used by seeding and the admin CLI; there is no public signup.
type CreateUserInput struct {
	Username string
	Email    string
	FullName string
	Password string
	// AvatarURL defaults to a generated avatar keyed by username.
	AvatarURL string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers pages through accounts. Out-of-range limits fall back to the default.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > maxUserPageSize {
		limit = defaultUserPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" {
		return nil, models.NewValidationError("Username and email are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(capitalize(err.Error()))
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(capitalize(err.Error()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
	}
	if user.AvatarURL == "" {
		user.AvatarURL = defaultAvatarURL(username)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func defaultAvatarURL(username string) string {
	return "https://i.pravatar.cc/150?u=" + url.QueryEscape(username)
}
