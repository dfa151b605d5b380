package server

import (
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

// ListComments godoc
// @Summary List a video's comments
// @Tags comments
// @Produce json
// @Param videoId path string true "Video id"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sortBy query string false "Sort field" default(createdAt)
// @Param sortType query string false "asc or desc" default(desc)
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /videos/{videoId}/comments [get]
// @Security BearerAuth
func (s *Server) ListComments(c *fiber.Ctx) error {
	videoID, err := parseID(c, "videoId", "video")
	if err != nil {
		return nil
	}
	p, err := parsePage(c, repository.CommentSortFields)
	if err != nil {
		return nil
	}

	page, err := s.commentService.ListComments(c.UserContext(), videoID, p)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, page, "Comments fetched successfully")
}

// AddComment godoc
// @Summary Comment on a video
// @Tags comments
// @Accept json
// @Produce json
// @Param videoId path string true "Video id"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId}/comments [post]
// @Security BearerAuth
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	videoID, err := parseID(c, "videoId", "video")
	if err != nil {
		return nil
	}

	var req commentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  userID,
		VideoID: videoID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, fiber.Map{"newComment": created}, "Comment added successfully")
}

// UpdateComment godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param commentId path string true "Comment id"
// @Param request body commentRequest true "New content"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId} [patch]
// @Security BearerAuth
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId", "comment")
	if err != nil {
		return nil
	}

	var req commentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"comment": updated}, "Comment updated successfully")
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param commentId path string true "Comment id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId} [delete]
// @Security BearerAuth
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId", "comment")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Comment deleted successfully")
}
