package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareApp() *fiber.App {
	app := fiber.New()
	(&Server{}).SetupMiddleware(app)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Post("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestSetupMiddleware_Headers(t *testing.T) {
	app := newMiddlewareApp()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Len(t, resp.Header.Get("X-Trace-ID"), 32)
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestSetupMiddleware_LimiterSparesPreflight(t *testing.T) {
	app := newMiddlewareApp()

	for i := 0; i < 100; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/ping", nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	limited := httptest.NewRequest(http.MethodPost, "/ping", nil)
	limited.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(limited, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	// CORS runs before the limiter so browsers can read the rejection.
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	_ = resp.Body.Close()

	preflight := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	preflight.Header.Set("Origin", "http://localhost:5173")
	preflight.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodPost)
	resp, err = app.Test(preflight, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestNewApp_UnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "Cannot GET /nope")
}
