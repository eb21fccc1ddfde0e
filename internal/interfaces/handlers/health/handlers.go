package health

import (
	"context"
	"time"

	healthsvc "vibejobs-backend/internal/application/health"
	"vibejobs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints. Rdb may be nil.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.Pinger
	HealthAdminKey string
	Env            healthsvc.Environment
}

// GET /api/health — 200 when healthy, 503 otherwise.
func (h *Handlers) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result := healthsvc.CollectHealth(ctx, h.Rdb, h.DB, h.Env)
	status := fiber.StatusOK
	if result.Status != healthsvc.StatusHealthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

// GET /api/health/reset — clears traffic stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Rdb == nil {
		return response.Error(c, "Redis not configured", fiber.StatusServiceUnavailable, nil)
	}
	if err := healthsvc.ResetTraffic(context.Background(), h.Rdb, time.Now()); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// GET /api/health/errors — the last server errors, newest first.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Rdb == nil {
		return c.JSON([]healthsvc.ErrorEntry{})
	}
	entries, err := healthsvc.RecentErrors(context.Background(), h.Rdb)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]healthsvc.ErrorEntry{})
	}
	return c.JSON(entries)
}
