package gatepasses

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupGatePassRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/gate-passes", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetGatePassesAPI(c, db)
	})
	api.Get("/export/csv", func(c *fiber.Ctx) error {
		return ExportCSVAPI(c, db)
	})
	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetGatePassByIDAPI(c, db)
	})
	api.Post("/", auth.RoleMiddleware("admin", "stores"), func(c *fiber.Ctx) error {
		return CreateGatePassAPI(c, db)
	})

	app.Get("/gate-passes", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return c.Render("gatepasses/index", fiber.Map{
			"Title": "Gate Passes",
		})
	})
}
