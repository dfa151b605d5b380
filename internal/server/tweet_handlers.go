package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tweetRequest struct {
	Content string `json:"content" form:"content"`
}

// CreateTweet godoc
// @Summary Post a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param request body tweetRequest true "Tweet"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /tweets [post]
// @Security BearerAuth
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	var req tweetRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		UserID:  userID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"tweet": tweet}, "Tweet is created successfully")
}

// UserTweets godoc
// @Summary List a user's tweets
// @Tags tweets
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{userId}/tweets [get]
// @Security BearerAuth
func (s *Server) UserTweets(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId", "user")
	if err != nil {
		return nil
	}

	tweets, err := s.tweetService.ListUserTweets(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"tweets": tweets}, "Tweets are fetched successfully")
}

// UpdateTweet godoc
// @Summary Edit a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param tweetId path string true "Tweet id"
// @Param request body tweetRequest true "New content"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{tweetId} [patch]
// @Security BearerAuth
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	tweetID, err := parseID(c, "tweetId", "tweet")
	if err != nil {
		return nil
	}

	var req tweetRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.UpdateTweet(c.UserContext(), service.UpdateTweetInput{
		UserID:  userID,
		TweetID: tweetID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"tweet": tweet}, "Tweet updated successfully")
}

// DeleteTweet godoc
// @Summary Delete a tweet
// @Tags tweets
// @Produce json
// @Param tweetId path string true "Tweet id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{tweetId} [delete]
// @Security BearerAuth
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	tweetID, err := parseID(c, "tweetId", "tweet")
	if err != nil {
		return nil
	}

	if err := s.tweetService.DeleteTweet(c.UserContext(), userID, tweetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Tweet deleted successfully")
}
