package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"vibejobs-backend/internal/application/health"
	"vibejobs-backend/internal/application/listings"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func okHandler(c *fiber.Ctx) error { return c.SendString("ok") }

func TestRequireAPIKey(t *testing.T) {
	app := fiber.New()
	app.Post("/run", RequireAPIKey("secret"), okHandler)

	cases := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"missing", "/run", "", fiber.StatusUnauthorized},
		{"wrong header", "/run", "nope", fiber.StatusUnauthorized},
		{"header", "/run", "secret", fiber.StatusOK},
		{"query", "/run?apiKey=secret", "", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("x-api-key", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireAPIKey_BcryptAndEmpty(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, apiKeyMatches(string(hash), "secret"))
	assert.False(t, apiKeyMatches(string(hash), "other"))
	assert.False(t, apiKeyMatches("", ""))
	assert.False(t, apiKeyMatches("", "anything"))
}

func TestTracing_ReusesValidInboundID(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "0b8f2a4e-6f51-4f3c-9a8e-1c2d3e4f5a6b")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "0b8f2a4e-6f51-4f3c-9a8e-1c2d3e4f5a6b", resp.Header.Get("X-Trace-Id"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "not-a-uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get("X-Trace-Id"))
	assert.Len(t, resp.Header.Get("X-Trace-Id"), 36)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedSuffix: ".vibejobs.dev"}))
	app.Get("/", okHandler)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.vibejobs.dev")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://app.vibejobs.dev", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func TestHealthMarker_CountsRequests(t *testing.T) {
	rdb, mr := setupRedis(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(ErrorHandlerConfig{})})
	app.Use(HealthMarker(rdb))
	app.Get("/api/jobs/global", okHandler)
	app.Get("/api/broken", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/api/health", okHandler)

	for _, path := range []string{"/api/jobs/global", "/api/broken", "/api/health"} {
		_, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
	}

	total, _ := mr.Get(health.KeyReqTotal)
	errs, _ := mr.Get(health.KeyReqErrors)
	assert.Equal(t, "2", total, "health checks are not counted")
	assert.Equal(t, "1", errs)
}

func TestErrorHandler_ClassifiesAndRecords(t *testing.T) {
	rdb, _ := setupRedis(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(ErrorHandlerConfig{Rdb: rdb, ExposeDetails: true})})
	app.Get("/down", func(c *fiber.Ctx) error { return listings.ErrStoreUnavailable })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/down", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	entries, err := health.RecentErrors(context.Background(), rdb)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only server errors are recorded")
	assert.Equal(t, "/down", entries[0].Path)
	assert.Equal(t, fiber.StatusServiceUnavailable, entries[0].Status)
}
