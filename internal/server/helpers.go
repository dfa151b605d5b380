package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vidtube/internal/media"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a uuid. On failure it writes a 400
// response naming the resource ("Invalid video id") and returns
// errResponseWritten. Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param, resource string) (uuid.UUID, error) {
	id, err := models.ParseID(resource, c.Params(param))
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// callerID returns the authenticated caller or writes a 401.
func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.CallerID(c)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// parsePage reads page, limit, sortBy and sortType from the query string.
func parsePage(c *fiber.Ctx, fields pagination.SortFields) (pagination.Params, error) {
	p, err := pagination.FromQuery(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortType"), fields)
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return pagination.Params{}, errResponseWritten
	}
	return p, nil
}

// spoolUpload saves the multipart file under field to a temporary file so the
// media store and the prober can both read it. A missing field yields a nil
// upload and a no-op cleanup.
func spoolUpload(c *fiber.Ctx, field string) (*media.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}

	tmp, err := os.CreateTemp("", "vidtube-upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return nil, noop, models.NewInternalError(fmt.Errorf("spool %s: %w", field, err))
	}
	path := tmp.Name()
	_ = tmp.Close()

	cleanup := func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.WarnContext(c.UserContext(), "failed to remove spooled upload",
				slog.String("path", path), slog.String("error", rmErr.Error()))
		}
	}

	if err := c.SaveFile(fh, path); err != nil {
		cleanup()
		return nil, noop, models.NewInternalError(fmt.Errorf("spool %s: %w", field, err))
	}

	return &media.Upload{
		Path:        path,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
	}, cleanup, nil
}
