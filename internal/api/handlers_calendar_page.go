package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/calendar"
	"github.com/terraincognita07/freelancer-admin/internal/security"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

const dedicatedCalendarSummary = "Freelancer Admin App"

func (handler *Handler) ShowCalendarPage(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	return handler.render(c, "calendar", fiber.Map{
		"Settings": settings,
		"EmbedURL": settings.CalendarEmbedURL,
	})
}

// ConnectCalendar starts the OAuth consent flow for the uploaded
// credentials.
func (handler *Handler) ConnectCalendar(c *fiber.Ctx) error {
	state, err := security.NewState()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start authorization")
	}
	authURL, err := handler.calendar.AuthCodeURL(c.UserContext(), handler.calendarRedirectURL(c), state)
	if err != nil {
		if errors.Is(err, calendar.ErrNotConfigured) {
			return handler.redirectWithError(c, "/settings", "Upload credentials.json first.")
		}
		handler.logger.Error(c.UserContext(), "calendar auth url failed", "error", err)
		return handler.redirectWithError(c, "/settings", "Could not start Google authorization.")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/gcal",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(10 * time.Minute),
	})
	return c.Redirect(authURL, fiber.StatusSeeOther)
}

func (handler *Handler) CalendarCallback(c *fiber.Ctx) error {
	expected := c.Cookies(oauthStateCookieName)
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/gcal",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})

	if !security.SameState(expected, c.Query("state")) {
		return handler.redirectWithError(c, "/settings", "Authorization expired, try connecting again.")
	}
	if denied := c.Query("error"); denied != "" {
		return handler.redirectWithError(c, "/settings", "Google authorization was declined.")
	}
	code := c.Query("code")
	if code == "" {
		return handler.redirectWithError(c, "/settings", "Google did not return an authorization code.")
	}

	if err := handler.calendar.Exchange(c.UserContext(), handler.calendarRedirectURL(c), code); err != nil {
		handler.logger.Error(c.UserContext(), "calendar token exchange failed", "error", err)
		return handler.redirectWithError(c, "/settings", "Could not connect Google Calendar.")
	}
	return handler.redirectWithSuccess(c, "/settings", "Google Calendar connected.")
}

func (handler *Handler) DisconnectCalendar(c *fiber.Ctx) error {
	if err := handler.calendar.Disconnect(c.UserContext()); err != nil {
		handler.logger.Warn(c.UserContext(), "calendar disconnect failed", "error", err)
	}
	return handler.redirectWithSuccess(c, "/settings", "Google Calendar disconnected.")
}

func (handler *Handler) CreateCalendar(c *fiber.Ctx) error {
	calendarID, err := handler.calendarSync.CreateDedicatedCalendar(c.UserContext(), dedicatedCalendarSummary)
	if err != nil {
		if errors.Is(err, services.ErrCalendarNotConfigured) {
			return handler.redirectWithError(c, "/settings", "Connect Google Calendar first.")
		}
		handler.logger.Error(c.UserContext(), "create calendar failed", "error", err)
		return handler.redirectWithError(c, "/settings", "Could not create the calendar.")
	}
	handler.logger.Info(c.UserContext(), "dedicated calendar created", "calendar_id", calendarID)
	return handler.redirectWithSuccess(c, "/settings", "Calendar created.")
}

func (handler *Handler) calendarRedirectURL(c *fiber.Ctx) string {
	return c.BaseURL() + "/gcal/callback"
}
