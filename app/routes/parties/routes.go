package parties

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupPartyRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/parties", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetPartiesAPI(c, db)
	})
	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetPartyByIDAPI(c, db)
	})

	writer := api.Group("", auth.RoleMiddleware("admin", "accounts"))
	writer.Post("/", func(c *fiber.Ctx) error {
		return CreatePartyAPI(c, db)
	})
	writer.Put("/:id", func(c *fiber.Ctx) error {
		return UpdatePartyAPI(c, db)
	})
	writer.Delete("/:id", func(c *fiber.Ctx) error {
		return DeactivatePartyAPI(c, db)
	})

	app.Get("/parties", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return c.Render("parties/index", fiber.Map{
			"Title": "Parties",
		})
	})
}
