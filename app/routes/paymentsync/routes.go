package paymentsync

import (
	"github.com/YashwanthPb/vyaparforge-sub001/app/config"
	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	syncsvc "github.com/YashwanthPb/vyaparforge-sub001/app/services/paymentsync"
	"github.com/gofiber/fiber/v2"
)

func SetupPaymentSyncRoutes(app *fiber.App) {
	svc := syncsvc.New(database.NewSyncStore(config.GetDB()))

	// Feed endpoint authenticates with the shared-secret header, not a
	// session: it is called by the external sheet-automation scheduler.
	app.Post("/api/payment-sync/feed", func(c *fiber.Ctx) error {
		return FeedAPI(c, svc)
	})

	api := app.Group("/api/payment-sync", auth.AuthMiddleware, auth.RoleMiddleware("admin", "accounts"))
	api.Get("/", func(c *fiber.Ctx) error {
		return ListSyncRecordsAPI(c, config.GetDB())
	})
	api.Post("/upload", func(c *fiber.Ctx) error {
		return UploadAPI(c, svc)
	})
	api.Get("/invoices/search", func(c *fiber.Ctx) error {
		return SearchInvoicesAPI(c, svc)
	})
	api.Post("/:id/match", func(c *fiber.Ctx) error {
		return ManualMatchAPI(c, svc)
	})
	api.Post("/:id/ignore", func(c *fiber.Ctx) error {
		return IgnoreAPI(c, svc)
	})

	// Reconciliation dashboard page
	page := app.Group("/payment-sync", auth.AuthMiddleware, auth.RoleMiddleware("admin", "accounts"))
	page.Get("/", ShowReconciliationPage)
}

func ShowReconciliationPage(c *fiber.Ctx) error {
	return c.Render("paymentsync/index", fiber.Map{
		"Title":       "Payment Reconciliation - Vyaparforge",
		"CurrentPage": "payment-sync",
		"user":        c.Locals("user"),
	})
}
