package api

import (
	"github.com/gofiber/fiber/v2"
)

var statsMetrics = []string{"hours", "jobs", "revenue"}

func (handler *Handler) ShowStatisticsPage(c *fiber.Ctx) error {
	now := handler.now().In(handler.location)
	overview, err := handler.stats.Overview(c.QueryInt("year", now.Year()), now)
	if err != nil {
		handler.logger.Error(c.UserContext(), "stats overview failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load statistics")
	}
	return handler.render(c, "statistics", fiber.Map{
		"Overview": overview,
		"Metrics":  statsMetrics,
	})
}

func (handler *Handler) GetYearStats(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil || year < 1 || year > 9999 {
		return apiError(c, fiber.StatusBadRequest, "invalid year")
	}
	stats, err := handler.stats.YearStats(year)
	if err != nil {
		handler.logger.Error(c.UserContext(), "year stats failed", "year", year, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load statistics")
	}
	return c.JSON(stats)
}
