package adminRoutes

import (
	adminController "fportal/controllers/admin"
	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes registers the admin dashboard routes. Everything here is
// gated on the ADMIN role.
func SetupAdminRoutes(app *fiber.App) {
	group := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	group.Get("/stats", adminController.DashboardStats)
	group.Get("/users", adminController.ListUsers)
	group.Get("/activity", adminController.RecentActivity)
	group.Put("/users/:id/toggle-status", adminController.ToggleUserStatus)

	group.Post("/access-control/fix", adminController.FixAccessControl)
	group.Post("/access-control/fix-async", adminController.TriggerScheduledFix)
}
