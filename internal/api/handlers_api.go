package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetHoliday(c *fiber.Ctx) error {
	lookup, err := handler.holidays.Lookup(c.Query("date"))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load holidays")
	}
	if !lookup.Parsed {
		return c.JSON(fiber.Map{"is_holiday": false})
	}

	payload := fiber.Map{
		"is_holiday":     lookup.IsHoliday,
		"name":           nil,
		"surcharge_text": nil,
	}
	if lookup.IsHoliday {
		payload["name"] = lookup.Name
		payload["surcharge_text"] = lookup.SurchargeText
	}
	return c.JSON(payload)
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	return c.JSON(fiber.Map{
		"night_start_hour": settings.NightStartHour,
		"night_end_hour":   settings.NightEndHour,
	})
}
