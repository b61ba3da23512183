package middleware

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"kinship/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(7))
	logger.With("component", "test").InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestContextMiddleware_CorrelationID(t *testing.T) {
	var seen []string
	handler := func(c *fiber.Ctx) error {
		seen = append(seen, observability.ExtractCorrelationID(c.UserContext()))
		return c.SendStatus(fiber.StatusOK)
	}

	withRID := fiber.New()
	withRID.Use(requestid.New(), ContextMiddleware())
	withRID.Get("/", handler)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "rid-42")
	resp, err := withRID.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	bare := fiber.New()
	bare.Use(ContextMiddleware())
	bare.Get("/", handler)
	resp, err = bare.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Len(t, seen, 2)
	assert.Equal(t, "rid-42", seen[0])
	assert.Len(t, seen[1], 36)
}
