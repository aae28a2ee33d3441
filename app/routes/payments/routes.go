package payments

import (
	"database/sql"

	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupPaymentsRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/payments", auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return GetPaymentsAPI(c, db) })
	api.Post("/", auth.RoleMiddleware("admin", "accounts"), func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, db)
	})
}
