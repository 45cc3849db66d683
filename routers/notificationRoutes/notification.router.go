package notificationRoutes

import (
	notificationController "fportal/controllers/notification"
	"fportal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupNotificationRoutes registers notification routes
func SetupNotificationRoutes(app *fiber.App) {
	group := app.Group("/notifications", middleware.JWTMiddleware)

	group.Get("/", notificationController.GetNotifications)
	group.Post("/mark-read", notificationController.MarkRead)
}
