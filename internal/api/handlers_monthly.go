package api

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/pdf"
	"github.com/terraincognita07/freelancer-admin/internal/services"
)

func (handler *Handler) ShowMonthlyPage(c *fiber.Ctx) error {
	year, month := handler.periodFromQuery(c)
	summary, err := handler.invoices.MonthlySummary(year, month)
	if err != nil {
		if errors.Is(err, services.ErrInvoicePeriodInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid period")
		}
		handler.logger.Error(c.UserContext(), "monthly summary failed", "year", year, "month", month, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load month")
	}

	now := handler.now().In(handler.location)
	return handler.render(c, "monthly", fiber.Map{
		"Summary":      summary,
		"CurrentYear":  now.Year(),
		"CurrentMonth": int(now.Month()),
	})
}

func (handler *Handler) ToggleInvoice(c *fiber.Ctx) error {
	form := invoiceToggleForm{}
	if err := bindForm(c, &form); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	err := handler.invoices.ToggleFlag(form.ClientID, form.Year, form.Month, form.Field)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceFieldInvalid) || errors.Is(err, services.ErrInvoicePeriodInvalid) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		handler.logger.Error(c.UserContext(), "toggle invoice failed", "client_id", form.ClientID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update invoice")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) SetInvoiceNumber(c *fiber.Ctx) error {
	form := invoiceNumberForm{}
	if err := bindForm(c, &form); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := handler.invoices.SetInvoiceNumber(form.ClientID, form.Year, form.Month, form.InvoiceNumber); err != nil {
		if errors.Is(err, services.ErrInvoicePeriodInvalid) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		handler.logger.Error(c.UserContext(), "set invoice number failed", "client_id", form.ClientID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to update invoice")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) InvoicePDF(c *fiber.Ctx) error {
	clientID := uint(c.QueryInt("client_id", 0))
	if clientID == 0 {
		return apiError(c, fiber.StatusBadRequest, "client_id is required")
	}
	year, month := handler.periodFromQuery(c)

	card, summary, err := handler.invoices.ClientMonth(clientID, year, month)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvoiceNoJobs):
		return apiError(c, fiber.StatusNotFound, "no jobs for this client in the month")
	case errors.Is(err, services.ErrInvoicePeriodInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid period")
	default:
		handler.logger.Error(c.UserContext(), "load invoice failed", "client_id", clientID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load invoice")
	}

	content, err := handler.invoicePDF.Render(card, summary)
	if err != nil {
		handler.logger.Error(c.UserContext(), "render invoice pdf failed", "client_id", clientID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to render invoice")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", pdf.Filename(clientID, year, month)))
	return c.Send(content)
}

func (handler *Handler) MonthlyCSV(c *fiber.Ctx) error {
	year, month := handler.periodFromQuery(c)

	var output bytes.Buffer
	if err := handler.exports.WriteMonthCSV(&output, year, month); err != nil {
		if errors.Is(err, services.ErrInvoicePeriodInvalid) {
			return apiError(c, fiber.StatusBadRequest, "invalid period")
		}
		handler.logger.Error(c.UserContext(), "export csv failed", "year", year, "month", month, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to export csv")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", services.ExportFilename(year, month)))
	return c.Send(output.Bytes())
}
