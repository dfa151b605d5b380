package server

import (
	"strings"

	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
)

func parseLikeTarget(c *fiber.Ctx) (models.LikeTarget, error) {
	kind, err := models.ParseTargetKind(c.Params("kind"))
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return models.LikeTarget{}, errResponseWritten
	}
	id, err := parseID(c, "targetId", string(kind))
	if err != nil {
		return models.LikeTarget{}, err
	}
	return models.LikeTarget{Kind: kind, ID: id}, nil
}

// ToggleLike godoc
// @Summary Like or unlike a video, comment or tweet
// @Description Adds the caller's like (201) or removes it when already present (200).
// @Tags likes
// @Produce json
// @Param kind path string true "video, comment or tweet"
// @Param targetId path string true "Target id"
// @Success 200 {object} models.APIResponse
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /likes/{kind}/{targetId} [post]
// @Security BearerAuth
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	target, err := parseLikeTarget(c)
	if err != nil {
		return nil
	}

	res, err := s.likeService.Toggle(c.UserContext(), service.ToggleLikeInput{UserID: userID, Target: target})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	kind := strings.ToLower(target.Kind.Label())
	if res.State == models.LikeAdded {
		return models.Respond(c, fiber.StatusCreated, fiber.Map{"newLike": res.Like}, "Like added to "+kind)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Like removed from "+kind)
}

// CountLikes godoc
// @Summary Count likes on a target
// @Tags likes
// @Produce json
// @Param kind path string true "video, comment or tweet"
// @Param targetId path string true "Target id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /likes/{kind}/{targetId} [get]
// @Security BearerAuth
func (s *Server) CountLikes(c *fiber.Ctx) error {
	target, err := parseLikeTarget(c)
	if err != nil {
		return nil
	}

	count, err := s.likeService.CountFor(c.UserContext(), target)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"likes": count}, "Likes fetched successfully")
}

// LikedVideos godoc
// @Summary Videos the caller has liked
// @Tags likes
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /users/me/liked-videos [get]
// @Security BearerAuth
func (s *Server) LikedVideos(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	videos, err := s.likeService.LikedVideos(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"likedVideos": videos}, "Liked videos fetched successfully")
}
