package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func (handler *Handler) ShowJobsPage(c *fiber.Ctx) error {
	clients, err := handler.clients.List()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load clients")
	}
	board, err := handler.jobs.Board(handler.now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load jobs")
	}

	return handler.render(c, "jobs", fiber.Map{
		"Clients":    clients,
		"RolesData":  services.BuildRolePicker(clients),
		"DefaultVAT": handler.defaultVAT,
		"Upcoming":   board.Upcoming,
		"Past":       board.Past,
	})
}

func (handler *Handler) AddJob(c *fiber.Ctx) error {
	form := jobForm{}
	if err := bindForm(c, &form); err != nil {
		return handler.redirectWithError(c, "/", "Client, role, start and end are required.")
	}
	start, okStart := parseLocalDateTime(form.StartDT, handler.location)
	end, okEnd := parseLocalDateTime(form.EndDT, handler.location)
	if !okStart || !okEnd {
		return handler.redirectWithError(c, "/", "Start and end must be valid dates.")
	}

	_, err := handler.jobs.Create(c.UserContext(), services.JobInput{
		ClientID:   form.ClientID,
		RoleID:     form.RoleID,
		Start:      start,
		End:        end,
		VATPercent: parseOptionalPercent(form.VATPercent, handler.defaultVAT),
		Detail:     form.Detail,
	})
	switch {
	case err == nil:
		return handler.redirectWithSuccess(c, "/", "Job added.")
	case errors.Is(err, services.ErrJobRoleMismatch):
		return handler.redirectWithError(c, "/", "That role belongs to another client.")
	case errors.Is(err, services.ErrVATPercentInvalid):
		return handler.redirectWithError(c, "/", "VAT must be between 0 and 100.")
	case errors.Is(err, services.ErrJobInvalidRange):
		return handler.redirectWithError(c, "/", "Start and end are required.")
	case statusForError(err) == fiber.StatusNotFound:
		return handler.redirectWithError(c, "/", "Unknown role.")
	default:
		handler.logger.Error(c.UserContext(), "create job failed", "error", err)
		return handler.redirectWithError(c, "/", "Could not save the job.")
	}
}

func (handler *Handler) DeleteJob(c *fiber.Ctx) error {
	jobID, ok := paramID(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid job id")
	}
	if err := handler.jobs.Delete(c.UserContext(), jobID); err != nil {
		if statusForError(err) == fiber.StatusNotFound {
			return apiError(c, fiber.StatusNotFound, "job not found")
		}
		handler.logger.Error(c.UserContext(), "delete job failed", "job_id", jobID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete job")
	}
	return handler.redirectWithSuccess(c, "/", "Job deleted.")
}
