package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/models"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func (handler *Handler) ShowClientsPage(c *fiber.Ctx) error {
	clients, err := handler.clients.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load clients")
	}
	return handler.render(c, "clients", fiber.Map{
		"Clients":    clients,
		"RoleModes":  models.RoleModes(),
		"DefaultVAT": handler.defaultVAT,
	})
}

func (handler *Handler) AddClient(c *fiber.Ctx) error {
	input, problem := handler.clientInputFromRequest(c)
	if problem != "" {
		return handler.redirectWithError(c, "/clients", problem)
	}
	if _, err := handler.clients.CreateClient(input); err != nil {
		return handler.redirectWithError(c, "/clients", clientErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/clients", "Client added.")
}

func (handler *Handler) ShowEditClientPage(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid client id")
	}
	client, err := handler.clients.Find(clientID)
	if err != nil {
		return apiError(c, statusForError(err), "client not found")
	}
	return handler.render(c, "edit_client", fiber.Map{"Client": client})
}

func (handler *Handler) EditClient(c *fiber.Ctx) error {
	clientID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid client id")
	}
	editPath := fmt.Sprintf("/clients/%d/edit", clientID)

	input, problem := handler.clientInputFromRequest(c)
	if problem != "" {
		return handler.redirectWithError(c, editPath, problem)
	}
	if err := handler.clients.UpdateClient(clientID, input, true); err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "client not found")
		}
		return handler.redirectWithError(c, editPath, clientErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/clients", "Client updated.")
}

// clientInputFromRequest prefers an uploaded logo over the logo_url field.
// A non-empty message is the flash error to show.
func (handler *Handler) clientInputFromRequest(c *fiber.Ctx) (services.ClientInput, string) {
	form := clientForm{}
	if err := bindForm(c, &form); err != nil {
		return services.ClientInput{}, "Client name is required."
	}

	logoURL := form.LogoURL
	uploaded, err := handler.storeUploadedImage(c, "logo", "logos")
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return services.ClientInput{}, "Logo is too large."
		}
		handler.logger.Warn(c.UserContext(), "client logo upload rejected", "error", err)
		return services.ClientInput{}, "Logo must be an image."
	}
	if uploaded != "" {
		logoURL = uploaded
	}

	return services.ClientInput{
		Name:              form.Name,
		DefaultVATPercent: parseOptionalPercent(form.DefaultVATPercent, handler.defaultVAT),
		LogoURL:           logoURL,
	}, ""
}

func (handler *Handler) AddRole(c *fiber.Ctx) error {
	form := roleForm{}
	if err := bindForm(c, &form); err != nil {
		return handler.redirectWithError(c, "/clients", "Role name, mode and rate are required.")
	}
	_, err := handler.clients.AddRole(services.RoleInput{
		ClientID:   form.ClientID,
		Name:       form.Name,
		Mode:       form.Mode,
		Rate:       form.Rate,
		VATPercent: parseOptionalPercent(form.VATPercent, handler.defaultVAT),
	})
	if err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return handler.redirectWithError(c, "/clients", "Unknown client.")
		}
		return handler.redirectWithError(c, "/clients", clientErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/clients", "Role added.")
}

func (handler *Handler) UpdateRole(c *fiber.Ctx) error {
	roleID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid role id")
	}
	form := roleForm{}
	if err := bindForm(c, &form); err != nil {
		return handler.redirectWithError(c, "/clients", "Role name, mode and rate are required.")
	}
	err := handler.clients.UpdateRole(roleID, services.RoleInput{
		Name:       form.Name,
		Mode:       form.Mode,
		Rate:       form.Rate,
		VATPercent: parseOptionalPercent(form.VATPercent, handler.defaultVAT),
	})
	if err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "role not found")
		}
		return handler.redirectWithError(c, "/clients", clientErrorMessage(err))
	}
	return handler.redirectWithSuccess(c, "/clients", "Role updated.")
}

func (handler *Handler) ArchiveRole(c *fiber.Ctx) error {
	return handler.setRoleActive(c, false)
}

func (handler *Handler) UnarchiveRole(c *fiber.Ctx) error {
	return handler.setRoleActive(c, true)
}

func (handler *Handler) setRoleActive(c *fiber.Ctx, active bool) error {
	roleID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid role id")
	}

	var err error
	message := "Role archived."
	if active {
		err = handler.clients.UnarchiveRole(roleID)
		message = "Role restored."
	} else {
		err = handler.clients.ArchiveRole(roleID)
	}
	if err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "role not found")
		}
		handler.logger.Error(c.UserContext(), "update role state failed", "role_id", roleID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update role")
	}
	return handler.redirectWithSuccess(c, "/clients", message)
}

func clientErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrClientNameRequired):
		return "Client name is required."
	case errors.Is(err, services.ErrRoleNameRequired):
		return "Role name is required."
	case errors.Is(err, services.ErrRoleModeInvalid):
		return "Unknown role mode."
	case errors.Is(err, services.ErrRoleRateInvalid):
		return "Rate must not be negative."
	case errors.Is(err, services.ErrVATPercentInvalid):
		return "VAT must be between 0 and 100."
	default:
		return "Could not save changes."
	}
}
