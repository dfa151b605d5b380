package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"vidtube/internal/middleware"
	"vidtube/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// --- parseID ---

func TestParseID_ValidID(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Get("/items/:videoId", func(c *fiber.Ctx) error {
		got, err := parseID(c, "videoId", "video")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": got})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id.String(), decodeEnvelope(t, resp)["id"])
}

func TestParseID_ResourceSpecificMessage(t *testing.T) {
	tests := []struct {
		param    string
		resource string
		raw      string
		expected string
	}{
		{"videoId", "video", "abc", "Invalid video id"},
		{"commentId", "comment", "12", "Invalid comment id"},
		{"channelId", "channel", uuid.Nil.String(), "Invalid channel id"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			app := fiber.New()
			app.Get("/items/:"+tt.param, func(c *fiber.Ctx) error {
				_, _ = parseID(c, tt.param, tt.resource)
				return nil
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+tt.raw, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeEnvelope(t, resp)
			assert.Equal(t, tt.expected, body["message"])
			assert.Equal(t, "INVALID_IDENTIFIER", body["code"])
			assert.Equal(t, false, body["success"])
			assert.Nil(t, body["data"])
		})
	}
}

// --- callerID ---

func TestCallerID_MissingLocalIsUnauthorized(t *testing.T) {
	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		if _, err := callerID(c); err != nil {
			return nil
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCallerID_ReadsLocal(t *testing.T) {
	id := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, id)
		return c.Next()
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		got, err := callerID(c)
		if err != nil {
			return nil
		}
		return c.SendString(got.String())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// --- parsePage ---

func TestParsePage(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p, err := parsePage(c, repository.VideoSortFields)
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit, "desc": p.SortDesc})
	})

	t.Run("defaults", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body := decodeEnvelope(t, resp)
		assert.Equal(t, float64(1), body["page"])
		assert.Equal(t, float64(10), body["limit"])
		assert.Equal(t, true, body["desc"])
	})

	t.Run("custom", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?page=3&limit=500&sortBy=views&sortType=asc", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body := decodeEnvelope(t, resp)
		assert.Equal(t, float64(3), body["page"])
		assert.Equal(t, float64(100), body["limit"])
		assert.Equal(t, false, body["desc"])
	})

	t.Run("unknown sort field", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?sortBy=password", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, resp)["code"])
	})
}

// --- spoolUpload ---

func TestSpoolUpload(t *testing.T) {
	var spooledPath string
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		up, cleanup, err := spoolUpload(c, "videoFile")
		if err != nil {
			return err
		}
		defer cleanup()
		missing, _, err := spoolUpload(c, "thumbnail")
		if err != nil {
			return err
		}

		data, err := os.ReadFile(up.Path)
		if err != nil {
			return err
		}
		spooledPath = up.Path
		return c.JSON(fiber.Map{
			"filename": up.Filename,
			"content":  string(data),
			"missing":  missing == nil,
		})
	})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("videoFile", "clip.MP4")
	require.NoError(t, err)
	_, err = part.Write([]byte("frames"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, "clip.MP4", body["filename"])
	assert.Equal(t, "frames", body["content"])
	assert.Equal(t, true, body["missing"])

	_, statErr := os.Stat(spooledPath)
	assert.True(t, os.IsNotExist(statErr), "spooled file should be removed after the request")
}
