package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	uid := uuid.New()
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithUserID(ctx, uid)
	ctx = context.WithValue(ctx, TraceIDKey, "trace-1")

	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":"`+uid.String()+`"`)
	assert.Contains(t, out, `"trace_id":"trace-1"`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestContextMiddleware_PropagatesLocals(t *testing.T) {
	uid := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-42")
		c.Locals(LocalUserID, uid)
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		assert.Equal(t, "rid-42", ctx.Value(RequestIDKey))
		got, ok := CallerFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uid, got)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()
}
