package main

import (
	"log"

	"fportal/config"
	"fportal/database"
	adminRoutes "fportal/routers/adminRoutes"
	assignmentRoutes "fportal/routers/assignmentRoutes"
	authRoutes "fportal/routers/authRoutes"
	chatRoutes "fportal/routers/chatRoutes"
	courseRoutes "fportal/routers/courseRoutes"
	forumRoutes "fportal/routers/forumRoutes"
	notificationRoutes "fportal/routers/notificationRoutes"
	videoRoutes "fportal/routers/videoRoutes"
	"fportal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)
	forumRoutes.SetupForumRoutes(app)
	videoRoutes.SetupVideoRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	chatRoutes.SetupChatRoutes(app)

	// Nightly mirror reconciliation
	utils.StartReconcileScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
