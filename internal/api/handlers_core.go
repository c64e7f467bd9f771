package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	payload, err := handler.withTemplateDefaults(c, data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to load settings")
	}

	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", payload); err != nil {
		handler.logger.Error(c.UserContext(), "render template failed", "template", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) (fiber.Map, error) {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Settings"]; !ok {
		settings, err := handler.settings.Get()
		if err != nil {
			return nil, err
		}
		data["Settings"] = settings
	}
	if _, ok := data["AppName"]; !ok {
		data["AppName"] = handler.appName
	}
	if _, ok := data["Today"]; !ok {
		data["Today"] = handler.now().In(handler.location).Format("2006-01-02")
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = string(c.Request().URI().RequestURI())
	}
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = csrfToken(c)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = handler.popFlash(c)
	}
	return data, nil
}
