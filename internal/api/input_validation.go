package api

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var errInvalidInput = errors.New("invalid input")

type jobForm struct {
	ClientID   uint   `form:"client_id" validate:"required"`
	RoleID     uint   `form:"role_id" validate:"required"`
	StartDT    string `form:"start_dt" validate:"required"`
	EndDT      string `form:"end_dt" validate:"required"`
	VATPercent string `form:"vat_percent"`
	Detail     string `form:"detail" validate:"max=2000"`
}

type clientForm struct {
	Name              string `form:"name" validate:"required,max=200"`
	DefaultVATPercent string `form:"default_vat_percent"`
	LogoURL           string `form:"logo_url" validate:"omitempty,max=500"`
}

type roleForm struct {
	ClientID   uint    `form:"client_id"`
	Name       string  `form:"name" validate:"required,max=200"`
	Mode       string  `form:"mode" validate:"required,oneof=hourly production daily weekly"`
	Rate       float64 `form:"rate_sek" validate:"gte=0"`
	VATPercent string  `form:"vat_percent"`
}

type invoiceToggleForm struct {
	ClientID uint   `form:"client_id" validate:"required"`
	Year     int    `form:"year" validate:"required,min=1,max=9999"`
	Month    int    `form:"month" validate:"required,min=1,max=12"`
	Field    string `form:"field" validate:"required"`
}

type invoiceNumberForm struct {
	ClientID      uint   `form:"client_id" validate:"required"`
	Year          int    `form:"year" validate:"required,min=1,max=9999"`
	Month         int    `form:"month" validate:"required,min=1,max=12"`
	InvoiceNumber string `form:"invoice_number" validate:"max=100"`
}

type holidayForm struct {
	Date          string `form:"date" validate:"required"`
	Name          string `form:"name" validate:"required,max=200"`
	SurchargeText string `form:"surcharge_text" validate:"max=200"`
}

type loginForm struct {
	Password string `form:"password"`
}

// bindForm parses the request body into dst and runs its validate tags.
func bindForm(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidInput
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errInvalidInput
	}
	names := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		names = append(names, strings.ToLower(fieldError.Field()))
	}
	return errors.New("invalid " + strings.Join(names, ", "))
}
