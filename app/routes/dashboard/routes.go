package dashboard

import (
	"database/sql"
	"strconv"

	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/routes/auth"
	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/dashboard", auth.AuthMiddleware)

	api.Get("/stats", func(c *fiber.Ctx) error {
		return GetStatsAPI(c, db)
	})
	api.Get("/activity", func(c *fiber.Ctx) error {
		return GetRecentActivityAPI(c, db)
	})

	// Audit trail listing is admin only.
	app.Get("/api/audit", auth.AuthMiddleware, auth.RoleMiddleware("admin"), func(c *fiber.Ctx) error {
		return GetAuditLogsAPI(c, db)
	})

	app.Get("/", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return renderDashboard(c, db)
	})
	app.Get("/dashboard", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return renderDashboard(c, db)
	})
}

func renderDashboard(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetDashboardStats(db)
	if err != nil {
		return c.Status(500).Render("error", fiber.Map{
			"Title":   "Error",
			"Message": "Failed to load dashboard",
		})
	}
	activity, err := database.GetRecentActivity(db, 10)
	if err != nil {
		activity = nil
	}
	return c.Render("dashboard/index", fiber.Map{
		"Title":    "Dashboard",
		"Stats":    stats,
		"Activity": activity,
	})
}

func GetStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetDashboardStats(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

func GetRecentActivityAPI(c *fiber.Ctx, db *sql.DB) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	activity, err := database.GetRecentActivity(db, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch recent activity"})
	}
	return c.JSON(fiber.Map{"success": true, "data": activity})
}

func GetAuditLogsAPI(c *fiber.Ctx, db *sql.DB) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	logs, err := database.ListAuditLogs(db, database.AuditFilters{
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Actor:    c.Query("actor"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}
	return c.JSON(fiber.Map{"success": true, "data": logs})
}
