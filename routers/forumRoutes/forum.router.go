package forumRoutes

import (
	forumController "fportal/controllers/forum"
	"fportal/middleware"
	forumValidator "fportal/validators/forum"

	"github.com/gofiber/fiber/v2"
)

// SetupForumRoutes registers discussion forum routes
func SetupForumRoutes(app *fiber.App) {
	group := app.Group("/forums", middleware.JWTMiddleware)

	group.Post("/", forumValidator.CreateForum(), forumController.CreateForum)
	group.Get("/", forumController.GetForums)
	group.Get("/:id", forumController.GetForumDetails)
	group.Post("/:id/reply", forumValidator.Reply(), forumController.ReplyToForum)
	group.Put("/:id/status", forumValidator.Status(), forumController.UpdateForumStatus)
}
