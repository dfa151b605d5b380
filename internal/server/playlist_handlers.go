package server

import (
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type playlistRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// CreatePlaylist godoc
// @Summary Create a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param request body playlistRequest true "Playlist"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /playlists [post]
// @Security BearerAuth
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	var req playlistRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.CreatePlaylist(c.UserContext(), service.CreatePlaylistInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, fiber.Map{"newPlaylist": playlist}, "Playlist created successfully")
}

// MyPlaylists godoc
// @Summary List the caller's playlists
// @Tags playlists
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /playlists [get]
// @Security BearerAuth
func (s *Server) MyPlaylists(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	playlists, err := s.playlistService.ListMine(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"playlists": playlists}, "User playlists fetched successfully")
}

// GetPlaylist godoc
// @Summary Get a playlist with its videos
// @Tags playlists
// @Produce json
// @Param playlistId path string true "Playlist id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{playlistId} [get]
// @Security BearerAuth
func (s *Server) GetPlaylist(c *fiber.Ctx) error {
	playlistID, err := parseID(c, "playlistId", "playlist")
	if err != nil {
		return nil
	}

	playlist, err := s.playlistService.GetPlaylist(c.UserContext(), playlistID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist}, "Playlist fetched successfully")
}

// UpdatePlaylist godoc
// @Summary Rename or describe a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Param playlistId path string true "Playlist id"
// @Param request body playlistRequest true "Fields to change"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{playlistId} [patch]
// @Security BearerAuth
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	playlistID, err := parseID(c, "playlistId", "playlist")
	if err != nil {
		return nil
	}

	var req playlistRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.UpdatePlaylist(c.UserContext(), service.UpdatePlaylistInput{
		UserID:      userID,
		PlaylistID:  playlistID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist}, "Playlist updated successfully")
}

// DeletePlaylist godoc
// @Summary Delete a playlist
// @Tags playlists
// @Produce json
// @Param playlistId path string true "Playlist id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{playlistId} [delete]
// @Security BearerAuth
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	playlistID, err := parseID(c, "playlistId", "playlist")
	if err != nil {
		return nil
	}

	if err := s.playlistService.DeletePlaylist(c.UserContext(), userID, playlistID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideoToPlaylist godoc
// @Summary Append a video to a playlist
// @Tags playlists
// @Produce json
// @Param playlistId path string true "Playlist id"
// @Param videoId path string true "Video id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{playlistId}/videos/{videoId} [post]
// @Security BearerAuth
func (s *Server) AddVideoToPlaylist(c *fiber.Ctx) error {
	in, ok := playlistEntryParams(c)
	if !ok {
		return nil
	}

	playlist, err := s.playlistService.AddVideo(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist}, "Video added to playlist successfully")
}

// RemoveVideoFromPlaylist godoc
// @Summary Remove a video from a playlist
// @Tags playlists
// @Produce json
// @Param playlistId path string true "Playlist id"
// @Param videoId path string true "Video id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{playlistId}/videos/{videoId} [delete]
// @Security BearerAuth
func (s *Server) RemoveVideoFromPlaylist(c *fiber.Ctx) error {
	in, ok := playlistEntryParams(c)
	if !ok {
		return nil
	}

	playlist, err := s.playlistService.RemoveVideo(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"playlist": playlist}, "Video removed from playlist successfully")
}

// playlistEntryParams reports a bad id in either position with one message.
func playlistEntryParams(c *fiber.Ctx) (service.PlaylistEntryInput, bool) {
	userID, err := callerID(c)
	if err != nil {
		return service.PlaylistEntryInput{}, false
	}

	playlistID, perr := uuid.Parse(c.Params("playlistId"))
	videoID, verr := uuid.Parse(c.Params("videoId"))
	if perr != nil || verr != nil || playlistID == uuid.Nil || videoID == uuid.Nil {
		_ = models.RespondWithAppError(c, &models.AppError{
			Code:    models.CodeInvalidIdentifier,
			Message: "Invalid playlist or video id",
		})
		return service.PlaylistEntryInput{}, false
	}

	return service.PlaylistEntryInput{UserID: userID, PlaylistID: playlistID, VideoID: videoID}, true
}
