package authRoutes

import (
	authController "fportal/controllers/auth"
	"fportal/middleware"
	authValidator "fportal/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the public authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Me)
}
