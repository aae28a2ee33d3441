package invoices

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupInvoicesRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/invoices", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return GetInvoicesAPI(c, db) })
	api.Get("/export/csv", func(c *fiber.Ctx) error { return ExportCSVAPI(c, db) })
	api.Get("/export/excel", func(c *fiber.Ctx) error { return ExportExcelAPI(c, db) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetInvoiceByIDAPI(c, db) })

	writer := api.Group("", auth.RoleMiddleware("admin", "accounts"))
	writer.Post("/", func(c *fiber.Ctx) error { return CreateInvoiceAPI(c, db) })
	writer.Put("/:id", func(c *fiber.Ctx) error { return UpdateInvoiceAPI(c, db) })

	page := app.Group("/invoices", auth.AuthMiddleware)
	page.Get("/", ShowInvoicesPage)
}

func ShowInvoicesPage(c *fiber.Ctx) error {
	return c.Render("invoices/index", fiber.Map{
		"Title":       "Invoices - Vyaparforge",
		"CurrentPage": "invoices",
		"user":        c.Locals("user"),
	})
}
