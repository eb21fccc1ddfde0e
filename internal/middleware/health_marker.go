package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vibejobs-backend/internal/application/health"
	"vibejobs-backend/internal/pkg/apierror"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthMarker records request stats in Redis (skip /, /api/health*, favicon).
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/api/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start.UTC(),
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, health.KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, health.KeyReqTotal).Result()

		err := c.Next()

		// A returned error is rendered later by the error handler, so the
		// status is not final yet.
		status := c.Response().StatusCode()
		if err != nil {
			status = apierror.Classify(err, false).Status
		}
		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, health.KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, health.KeyResTime, float64(ms)).Result()
		if status >= 500 {
			_, _ = rdb.Incr(ctx, health.KeyReqErrors).Result()
		}
		return err
	}
}
