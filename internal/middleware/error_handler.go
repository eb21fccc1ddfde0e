package middleware

import (
	"context"
	"time"

	"vibejobs-backend/internal/application/health"
	"vibejobs-backend/internal/pkg/apierror"
	"vibejobs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrorHandlerConfig controls what the global error handler exposes and where
// it records server errors.
type ErrorHandlerConfig struct {
	// ExposeDetails adds the raw error text to responses (development only).
	ExposeDetails bool
	// Rdb receives 5xx entries in the health error log. Optional.
	Rdb *redis.Client
}

// ErrorHandler returns the global error handler. Returns the standard error format.
func ErrorHandler(cfg ErrorHandlerConfig) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		classified := apierror.Classify(err, cfg.ExposeDetails)

		if classified.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Int("status", classified.Status).Msg("request failed")
			if cfg.Rdb != nil {
				entry := health.ErrorEntry{
					Time:    time.Now().UTC(),
					Method:  c.Method(),
					Path:    c.Path(),
					Status:  classified.Status,
					Message: err.Error(),
					TraceID: GetTraceID(c),
				}
				if rerr := health.RecordError(context.Background(), cfg.Rdb, entry); rerr != nil {
					log.Warn().Err(rerr).Msg("failed to record error entry")
				}
			}
		}

		var details interface{}
		if classified.Details != "" {
			details = classified.Details
		}
		return response.Error(c, classified.Message, classified.Status, details)
	}
}
