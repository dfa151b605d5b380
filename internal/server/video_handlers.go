package server

import (
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListVideos godoc
// @Summary List videos
// @Description Paginated video listing, optionally filtered by owner and a title/description search.
// @Tags videos
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param query query string false "Search text"
// @Param sortBy query string false "Sort field" default(createdAt)
// @Param sortType query string false "asc or desc" default(desc)
// @Param userId query string false "Owner id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /videos [get]
// @Security BearerAuth
func (s *Server) ListVideos(c *fiber.Ctx) error {
	p, err := parsePage(c, repository.VideoSortFields)
	if err != nil {
		return nil
	}

	in := service.ListVideosInput{Query: c.Query("query"), Page: p}
	if raw := c.Query("userId"); raw != "" {
		ownerID, parseErr := models.ParseID("user", raw)
		if parseErr != nil {
			return models.RespondWithAppError(c, parseErr)
		}
		in.OwnerID = &ownerID
	}

	page, err := s.videoService.ListVideos(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, page, "Videos are fetched successfully")
}

// PublishVideo godoc
// @Summary Publish a video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param videoFile formData file true "Video file"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /videos [post]
// @Security BearerAuth
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	videoFile, cleanupVideo, err := spoolUpload(c, "videoFile")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	defer cleanupVideo()

	thumbnail, cleanupThumb, err := spoolUpload(c, "thumbnail")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	defer cleanupThumb()

	video, err := s.videoService.PublishVideo(c.UserContext(), service.PublishVideoInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, fiber.Map{"video": video}, "Video is published successfully")
}

// GetVideo godoc
// @Summary Get a video
// @Description Counts a view and records the video as the caller's last watched.
// @Tags videos
// @Produce json
// @Param videoId path string true "Video id"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId} [get]
// @Security BearerAuth
func (s *Server) GetVideo(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	videoID, err := parseID(c, "videoId", "video")
	if err != nil {
		return nil
	}

	video, err := s.videoService.GetVideo(c.UserContext(), userID, videoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"video": video}, "Video is fetched successfully")
}

// UpdateVideo godoc
// @Summary Update a video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Param videoId path string true "Video id"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param thumbnail formData file false "Replacement thumbnail"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId} [patch]
// @Security BearerAuth
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	videoID, err := parseID(c, "videoId", "video")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithAppError(c, models.NewValidationError("Invalid request body"))
	}

	thumbnail, cleanup, err := spoolUpload(c, "thumbnail")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	defer cleanup()

	video, err := s.videoService.UpdateVideo(c.UserContext(), service.UpdateVideoInput{
		UserID:      userID,
		VideoID:     videoID,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"video": video}, "Video details are updated successfully")
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags videos
// @Produce json
// @Param videoId path string true "Video id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId} [delete]
// @Security BearerAuth
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	userID, videoID, ok := ownedVideoParams(c)
	if !ok {
		return nil
	}

	if err := s.videoService.DeleteVideo(c.UserContext(), userID, videoID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, nil, "Video is deleted successfully")
}

// TogglePublish godoc
// @Summary Toggle a video's published flag
// @Tags videos
// @Produce json
// @Param videoId path string true "Video id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{videoId}/publish [patch]
// @Security BearerAuth
func (s *Server) TogglePublish(c *fiber.Ctx) error {
	userID, videoID, ok := ownedVideoParams(c)
	if !ok {
		return nil
	}

	published, err := s.videoService.TogglePublish(c.UserContext(), userID, videoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"isPublished": published},
		"Video publish status is toggled successfully")
}

func ownedVideoParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, bool) {
	userID, err := callerID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	videoID, err := parseID(c, "videoId", "video")
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, videoID, true
}
