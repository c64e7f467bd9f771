package api

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func (handler *Handler) ShowSettingsPage(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	holidays, err := handler.holidays.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load holidays")
	}

	ctx := c.UserContext()
	return handler.render(c, "settings", fiber.Map{
		"Settings":            settings,
		"Holidays":            holidays,
		"CredentialsUploaded": handler.calendar.HasCredentials(ctx),
		"CalendarConnected":   handler.calendar.HasToken(ctx),
	})
}

// UpdateSettings only touches the fields present in the submitted form, so
// the general and calendar forms can post to the same route.
func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	update := services.SettingsUpdate{
		CompanyLogoURL:   optionalFormValue(c, "company_logo_url"),
		FaviconURL:       optionalFormValue(c, "favicon_url"),
		CalendarEmbedURL: optionalFormValue(c, "google_calendar_embed_url"),
		NightStartHour:   optionalFormValue(c, "night_start_hour"),
		NightEndHour:     optionalFormValue(c, "night_end_hour"),
		NetRatePercent:   optionalFormValue(c, "net_rate_percent"),
		LoginEnabled:     optionalFormBool(c, "login_enabled"),
		LoginPassword:    optionalFormValue(c, "login_password"),
		CurrencyCode:     optionalFormValue(c, "currency_code"),
		CalendarEnabled:  optionalFormBool(c, "gcal_enabled"),
		CalendarID:       optionalFormValue(c, "gcal_calendar_id"),
	}

	for field, target := range map[string]**string{
		"company_logo": &update.CompanyLogoURL,
		"favicon":      &update.FaviconURL,
	} {
		uploaded, err := handler.storeUploadedImage(c, field, "branding")
		if err != nil {
			handler.logger.Warn(c.UserContext(), "branding upload rejected", "field", field, "error", err)
			return handler.redirectWithError(c, "/settings", "Logo and favicon must be images under 5 MB.")
		}
		if uploaded != "" {
			*target = &uploaded
		}
	}

	if err := handler.settings.Update(update); err != nil {
		handler.logger.Error(c.UserContext(), "update settings failed", "error", err)
		return handler.redirectWithError(c, "/settings", "Could not save settings.")
	}
	return handler.redirectWithSuccess(c, "/settings", "Settings saved.")
}

func (handler *Handler) UploadCalendarCredentials(c *fiber.Ctx) error {
	header, err := c.FormFile("credentials")
	if err != nil || header == nil || !strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		return handler.redirectWithError(c, "/settings", "Choose a credentials .json file.")
	}
	raw, err := readUpload(c, "credentials")
	if err != nil || raw == nil {
		return handler.redirectWithError(c, "/settings", "Could not read the credentials file.")
	}
	if err := handler.calendar.SaveCredentials(c.UserContext(), raw); err != nil {
		handler.logger.Warn(c.UserContext(), "calendar credentials rejected", "error", err)
		return handler.redirectWithError(c, "/settings", "That file is not an OAuth client credentials file.")
	}
	return handler.redirectWithSuccess(c, "/settings", "Credentials uploaded.")
}

// TestCalendar answers the settings page button with a JSON result.
func (handler *Handler) TestCalendar(c *fiber.Ctx) error {
	eventID, err := handler.calendarSync.TestConnection(c.UserContext())
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"ok": true, "eventId": eventID})
	case errors.Is(err, services.ErrCalendarIDMissing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "msg": "No calendar ID configured."})
	case errors.Is(err, services.ErrCalendarNotConfigured):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "msg": "No valid Google token/credentials."})
	default:
		handler.logger.Error(c.UserContext(), "calendar test failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "msg": err.Error()})
	}
}

func (handler *Handler) AddHoliday(c *fiber.Ctx) error {
	form := holidayForm{}
	if err := bindForm(c, &form); err != nil {
		return handler.redirectWithError(c, "/settings", "Holiday date and name are required.")
	}
	if _, err := handler.holidays.Add(holidayInput(form)); err != nil {
		return handler.redirectWithError(c, "/settings", holidayErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/settings", "Holiday added.")
}

func (handler *Handler) UpdateHoliday(c *fiber.Ctx) error {
	holidayID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid holiday id")
	}
	form := holidayForm{}
	if err := bindForm(c, &form); err != nil {
		return handler.redirectWithError(c, "/settings", "Holiday date and name are required.")
	}
	if err := handler.holidays.Update(holidayID, holidayInput(form)); err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "holiday not found")
		}
		return handler.redirectWithError(c, "/settings", holidayErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/settings", "Holiday updated.")
}

func (handler *Handler) DeleteHoliday(c *fiber.Ctx) error {
	holidayID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid holiday id")
	}
	if err := handler.holidays.Delete(holidayID); err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "holiday not found")
		}
		handler.logger.Error(c.UserContext(), "delete holiday failed", "holiday_id", holidayID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete holiday")
	}
	return handler.redirectWithSuccess(c, "/settings", "Holiday deleted.")
}

func holidayInput(form holidayForm) services.HolidayInput {
	return services.HolidayInput{
		Date:          form.Date,
		Name:          form.Name,
		SurchargeText: form.SurchargeText,
	}
}

func holidayErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrHolidayInvalidDate):
		return "Holiday date must be YYYY-MM-DD."
	case errors.Is(err, services.ErrHolidayNameRequired):
		return "Holiday name is required."
	default:
		return "Could not save the holiday."
	}
}
