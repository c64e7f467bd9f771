package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.LoginGate)
	registerPageRoutes(app, handler)
	registerCalendarRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/uploads/*", handler.ServeUpload)

	app.Get("/login", handler.ShowLoginPage)
	app.Post("/login", handler.Login)
	app.Get("/logout", handler.Logout)

	app.Get("/", handler.ShowJobsPage)
	app.Post("/add-job", handler.AddJob)
	app.Post("/jobs/:id/delete", handler.DeleteJob)

	app.Get("/monthly", handler.ShowMonthlyPage)
	app.Get("/monthly/csv", handler.MonthlyCSV)
	app.Post("/invoice/toggle", handler.ToggleInvoice)
	app.Post("/invoice/number", handler.SetInvoiceNumber)
	app.Get("/invoice/pdf", handler.InvoicePDF)

	app.Get("/clients", handler.ShowClientsPage)
	app.Post("/clients/add", handler.AddClient)
	app.Get("/clients/:id/edit", handler.ShowEditClientPage)
	app.Post("/clients/:id/edit", handler.EditClient)
	app.Post("/roles/add", handler.AddRole)
	app.Post("/roles/:id/update", handler.UpdateRole)
	app.Post("/roles/:id/archive", handler.ArchiveRole)
	app.Post("/roles/:id/unarchive", handler.UnarchiveRole)

	app.Get("/settings", handler.ShowSettingsPage)
	app.Post("/settings", handler.UpdateSettings)
	app.Post("/settings/upload-credentials", handler.UploadCalendarCredentials)
	app.Post("/settings/holiday/add", handler.AddHoliday)
	app.Post("/settings/holiday/:id/update", handler.UpdateHoliday)
	app.Post("/settings/holiday/:id/delete", handler.DeleteHoliday)

	app.Get("/statistics", handler.ShowStatisticsPage)
}

func registerCalendarRoutes(app *fiber.App, handler *Handler) {
	app.Get("/calendar", handler.ShowCalendarPage)
	app.Get("/calendar/create", handler.CreateCalendar)
	app.Get("/calendar/disconnect", handler.DisconnectCalendar)
	app.Post("/settings/test-calendar", handler.TestCalendar)

	gcal := app.Group("/gcal")
	gcal.Get("/connect", handler.ConnectCalendar)
	gcal.Get("/callback", handler.CalendarCallback)
	gcal.Get("/disconnect", handler.DisconnectCalendar)
	gcal.Get("/create-calendar", handler.CreateCalendar)
	app.Post("/settings/test-gcal", handler.TestCalendar)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/holiday", handler.GetHoliday)
	api.Get("/settings", handler.GetSettings)
	api.Get("/stats/:year", handler.GetYearStats)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
