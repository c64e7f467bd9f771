package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookieName    = "freelancer_session"
	flashCookieName      = "freelancer_flash"
	oauthStateCookieName = "freelancer_oauth_state"
	sessionSubject       = "admin"
)

// NoCache keeps browsers from serving stale pages after a write.
func NoCache(c *fiber.Ctx) error {
	err := c.Next()
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	return err
}

// LoginGate requires a session cookie when the login setting is on.
func (handler *Handler) LoginGate(c *fiber.Ctx) error {
	if isPublicPath(c.Path()) {
		return c.Next()
	}

	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load settings")
	}
	if !settings.LoginEnabled || handler.hasValidSession(c) {
		return c.Next()
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	return c.Redirect("/login?next="+urlQueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
}

func isPublicPath(path string) bool {
	switch path {
	case "/login", "/logout", "/healthz", "/favicon.ico":
		return true
	}
	return strings.HasPrefix(path, uploadsURLPrefix)
}
