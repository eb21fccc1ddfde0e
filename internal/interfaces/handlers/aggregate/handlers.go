package aggregate

import (
	"context"
	"errors"
	"time"

	"vibejobs-backend/internal/application/aggregation"
	"vibejobs-backend/internal/domain"
	"vibejobs-backend/internal/pkg/apierror"
	"vibejobs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Runner starts an aggregation run. *aggregation.Service satisfies it.
type Runner interface {
	Run(ctx context.Context) (*aggregation.Summary, error)
}

// RunReader returns the most recent recorded run, nil when none.
type RunReader interface {
	Latest(ctx context.Context) (*domain.AggregationRun, error)
}

type Handlers struct {
	Runner        Runner
	Runs          RunReader
	ExposeDetails bool
}

// POST /api/jobs/aggregate — runs one aggregation synchronously. Guarded by RequireAPIKey.
func (h *Handlers) Trigger(c *fiber.Ctx) error {
	summary, err := h.Runner.Run(c.Context())
	if errors.Is(err, aggregation.ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Job aggregation already running",
			"message": err.Error(),
		})
	}
	if err != nil {
		classified := apierror.Classify(err, h.ExposeDetails)
		body := fiber.Map{
			"success": false,
			"error":   "Job aggregation failed",
			"message": classified.Message,
		}
		if classified.Details != "" {
			body["details"] = classified.Details
		}
		return c.Status(classified.Status).JSON(body)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Job aggregation completed successfully",
		"timestamp": time.Now().UTC(),
		"summary":   summary,
	})
}

// GET /api/jobs/aggregate/latest — the last recorded run.
func (h *Handlers) Latest(c *fiber.Ctx) error {
	run, err := h.Runs.Latest(c.Context())
	if err != nil {
		return err
	}
	if run == nil {
		return response.Error(c, "No aggregation run recorded", fiber.StatusNotFound, nil)
	}
	return response.Success(c, "Latest aggregation run", run, nil)
}
