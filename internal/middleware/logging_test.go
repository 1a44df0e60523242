package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info")

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(9))
	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":9`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "warn")
	logger.Info("quiet")
	assert.Empty(t, buf.String())
	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestContextMiddleware_PropagatesLocals(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(5))
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		return c.JSON(fiber.Map{
			"has_request_id": ctx.Value(RequestIDKey) != nil,
			"user_id":        ctx.Value(UserIDKey),
		})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.JSONEq(t, `{"has_request_id":true,"user_id":5}`, buf.String())
}
