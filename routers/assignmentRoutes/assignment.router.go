package assignmentRoutes

import (
	assignmentController "fportal/controllers/assignment"
	"fportal/middleware"
	assignmentValidator "fportal/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssignmentRoutes registers assignment and grading routes
func SetupAssignmentRoutes(app *fiber.App) {
	group := app.Group("/assignments", middleware.JWTMiddleware)

	group.Post("/", assignmentValidator.CreateAssignment(), assignmentController.CreateAssignment)
	group.Get("/", assignmentController.GetAssignments)
	group.Get("/:id", assignmentController.GetAssignmentDetails)
	group.Post("/:id/submit", assignmentController.SubmitAssignment)
	group.Post("/:id/grade/:studentId", assignmentValidator.Grade(), assignmentController.GradeSubmission)
}
