package videoRoutes

import (
	videoController "fportal/controllers/video"
	"fportal/middleware"
	videoValidator "fportal/validators/video"

	"github.com/gofiber/fiber/v2"
)

// SetupVideoRoutes registers video interaction routes. Creation and listing
// live under the owning course's routes.
func SetupVideoRoutes(app *fiber.App) {
	group := app.Group("/videos", middleware.JWTMiddleware)

	group.Get("/:id", videoController.GetVideoDetails)
	group.Post("/:id/comments", videoValidator.Comment(), videoController.AddComment)
	group.Post("/:id/like", videoController.ToggleLike)
	group.Post("/:id/complete", videoValidator.Complete(), videoController.MarkComplete)
}
