package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg Config) (*fiber.App, Middleware) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := New(logger, cfg)

	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewCORSMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})
	app.Post("/limited", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, m
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	app, _ := newTestApp(Config{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/id", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Len(t, string(body), 26)
	assert.Equal(t, string(body), resp.Header.Get(RequestIDKey))

	req := httptest.NewRequest(fiber.MethodGet, "/id", nil)
	req.Header.Set(RequestIDKey, "client-id-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "client-id-1", string(body))

	req = httptest.NewRequest(fiber.MethodGet, "/id", nil)
	req.Header.Set(RequestIDKey, strings.Repeat("x", 200))
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Len(t, string(body), 26)
}

func TestCORS_Preflight(t *testing.T) {
	app, _ := newTestApp(Config{})

	req := httptest.NewRequest(fiber.MethodOptions, "/limited", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	req.Header.Set(fiber.HeaderAccessControlRequestHeaders, "Content-Type, X-Custom")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "POST")
	assert.Equal(t, "Content-Type, X-Custom", resp.Header.Get(fiber.HeaderAccessControlAllowHeaders))
}

func TestCORS_SimpleRequest(t *testing.T) {
	app, _ := newTestApp(Config{})

	req := httptest.NewRequest(fiber.MethodGet, "/id", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://coach.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://coach.example", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/id", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestRateLimiter(t *testing.T) {
	app, _ := newTestApp(Config{RateLimit: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/limited", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, fiber.StatusTooManyRequests}, codes)
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody([]byte(`{"target_sign_id":"A","image":"abcdef","features":[1,2,3]}`))
	assert.Contains(t, out, `"image":"[6 chars]"`)
	assert.Contains(t, out, `"features":"[3 values]"`)
	assert.Contains(t, out, `"target_sign_id":"A"`)

	assert.Equal(t, "[non-JSON body]", sanitizeRequestBody([]byte("nope")))
}
