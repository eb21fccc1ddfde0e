package jobs

import (
	listsvc "vibejobs-backend/internal/application/listings"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

// GET /api/jobs/global — active remote-global jobs.
func (h *Handlers) Global(c *fiber.Ctx) error {
	minScore := c.Query("minScore")
	if minScore == "" {
		minScore = c.Query("vibeScore")
	}
	res, err := h.Service.Global(c.Context(), listsvc.GlobalQuery{
		Category: c.Query("category"),
		MinScore: minScore,
		Search:   c.Query("search"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page("jobs", res))
}

// GET /api/jobs/regional — active regional-only jobs.
func (h *Handlers) Regional(c *fiber.Ctx) error {
	res, err := h.Service.Regional(c.Context(), listsvc.RegionalQuery{
		LocationType: c.Query("locationType"),
		Category:     c.Query("category"),
		City:         c.Query("city"),
		Search:       c.Query("search"),
		Page:         c.Query("page"),
		Limit:        c.Query("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page("jobs", res))
}

// GET /api/jobs/impact — active impact-program jobs, tenders and grants.
func (h *Handlers) Impact(c *fiber.Ctx) error {
	res, err := h.Service.Impact(c.Context(), listsvc.ImpactQuery{
		Type:     c.Query("type"),
		Region:   c.Query("region"),
		Industry: c.Query("industry"),
		AIFocus:  c.Query("aiFocus"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page("opportunities", res))
}

func page(key string, res *listsvc.Result) fiber.Map {
	return fiber.Map{
		key:     res.Items,
		"total": res.Total,
		"page":  res.Page,
		"pages": res.Pages,
	}
}
