package api

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func statusForError(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}

func urlQueryEscape(value string) string {
	return url.QueryEscape(value)
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// parseLocalDateTime reads a datetime-local form value as wall-clock time in
// location.
func parseLocalDateTime(raw string, location *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, location); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseOptionalPercent keeps fallback for a blank or malformed field.
func parseOptionalPercent(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

// periodFromQuery reads year and month, defaulting to the current month.
func (handler *Handler) periodFromQuery(c *fiber.Ctx) (int, int) {
	now := handler.now().In(handler.location)
	return c.QueryInt("year", now.Year()), c.QueryInt("month", int(now.Month()))
}

// optionalFormValue reports whether key was submitted at all, for both url
// encoded and multipart bodies.
func optionalFormValue(c *fiber.Ctx, key string) *string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		values, ok := form.Value[key]
		if !ok {
			return nil
		}
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		return &value
	}

	args := c.Request().PostArgs()
	if !args.Has(key) {
		return nil
	}
	value := string(args.Peek(key))
	return &value
}

func optionalFormBool(c *fiber.Ctx, key string) *bool {
	raw := optionalFormValue(c, key)
	if raw == nil {
		return nil
	}
	enabled := strings.TrimSpace(*raw) == "1"
	return &enabled
}
