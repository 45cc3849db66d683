package chatRoutes

import (
	chatController "fportal/controllers/chat"
	"fportal/middleware"
	"fportal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupChatRoutes registers the direct-message REST routes and the
// websocket endpoint backing the realtime channel.
func SetupChatRoutes(app *fiber.App) {
	group := app.Group("/chat", middleware.JWTMiddleware)

	group.Get("/conversations", chatController.GetConversations)
	group.Post("/conversations", chatController.StartConversation)
	group.Get("/conversations/:id/messages", chatController.GetMessages)

	app.Get("/ws", ws.Upgrade, websocket.New(ws.Handler))
}
