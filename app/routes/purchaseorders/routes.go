package purchaseorders

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseOrderRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/purchase-orders", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetPurchaseOrdersAPI(c, db)
	})
	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetPurchaseOrderByIDAPI(c, db)
	})

	writer := api.Group("", auth.RoleMiddleware("admin", "stores"))
	writer.Post("/", func(c *fiber.Ctx) error {
		return CreatePurchaseOrderAPI(c, db)
	})
	writer.Post("/:id/receive", func(c *fiber.Ctx) error {
		return ReceiveAPI(c, db)
	})

	app.Get("/purchase-orders", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return c.Render("purchaseorders/index", fiber.Map{
			"Title": "Purchase Orders",
		})
	})
}
