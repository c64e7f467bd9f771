package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	if !settings.LoginEnabled {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return handler.render(c, "login", fiber.Map{
		"Next": sanitizeRedirectPath(c.Query("next"), "/"),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	next := sanitizeRedirectPath(c.Query("next"), "/")
	if !settings.LoginEnabled {
		return c.Redirect(next, fiber.StatusSeeOther)
	}

	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		c.Status(fiber.StatusTooManyRequests)
		return handler.render(c, "login", fiber.Map{"Next": next, "Error": "Too many attempts. Try again later."})
	}

	input := loginForm{}
	if err := c.BodyParser(&input); err != nil {
		c.Status(fiber.StatusBadRequest)
		return handler.render(c, "login", fiber.Map{"Next": next, "Error": "Invalid password."})
	}

	if err := handler.settings.VerifyLoginPassword(settings, input.Password); err != nil {
		if !errors.Is(err, services.ErrSettingsPasswordMissing) && !errors.Is(err, services.ErrSettingsPasswordInvalid) && !errors.Is(err, services.ErrLoginPasswordNotSet) {
			return apiError(c, fiber.StatusInternalServerError, "failed to verify password")
		}
		handler.loginLimiter.recordFailure(limiterKey, now)
		c.Status(fiber.StatusUnauthorized)
		return handler.render(c, "login", fiber.Map{"Next": next, "Error": "Invalid password."})
	}

	handler.loginLimiter.reset(limiterKey)
	if err := handler.setSessionCookie(c); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
