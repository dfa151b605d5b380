package server

import (
	"vidtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ChannelStats godoc
// @Summary Channel totals
// @Description Videos, subscribers, likes on the channel's videos and total views.
// @Tags channels
// @Produce json
// @Param channelId path string true "Channel (user) id"
// @Success 200 {object} models.APIResponse{data=models.ChannelStats}
// @Failure 400 {object} models.ErrorResponse
// @Router /channels/{channelId}/stats [get]
// @Security BearerAuth
func (s *Server) ChannelStats(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId", "channel")
	if err != nil {
		return nil
	}

	stats, err := s.channelService.GetStats(c.UserContext(), channelID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, stats, "Channel stats fetched successfully")
}

// ChannelVideos godoc
// @Summary Every video a channel owns
// @Tags channels
// @Produce json
// @Param channelId path string true "Channel (user) id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /channels/{channelId}/videos [get]
// @Security BearerAuth
func (s *Server) ChannelVideos(c *fiber.Ctx) error {
	channelID, err := parseID(c, "channelId", "channel")
	if err != nil {
		return nil
	}

	videos, err := s.channelService.GetVideos(c.UserContext(), channelID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"videos": videos}, "Channel videos fetched successfully")
}
