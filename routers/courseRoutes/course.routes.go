package courseRoutes

import (
	courseController "fportal/controllers/course"
	"fportal/middleware"
	courseValidator "fportal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers all course routes. The fixed-path "my-courses"
// style routes must be registered before the ":id" routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses", middleware.JWTMiddleware)

	courseGroup.Get("/", courseValidator.CourseList(), courseController.GetAllCourses)
	courseGroup.Post("/", courseValidator.CreateCourse(), courseController.CreateCourse)

	// Mirror-backed per-user views
	courseGroup.Get("/my-courses", courseController.GetMyCourses)
	courseGroup.Get("/teaching", courseController.GetTeachingCourses)
	courseGroup.Get("/enrolled", courseController.GetEnrolledCourses)
	courseGroup.Get("/assisting", courseController.GetAssistingCourses)

	courseGroup.Get("/:id", courseController.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", courseController.EnrollInCourse)
	courseGroup.Post("/:id/drop", courseController.DropCourse)
	courseGroup.Get("/:id/roster", courseController.GetCourseRoster)

	// TA management
	courseGroup.Post("/:id/tas", courseValidator.AssignTA(), courseController.AssignTA)
	courseGroup.Delete("/:id/tas/:taId", courseController.RemoveTA)

	// Embedded content lists
	courseGroup.Post("/:id/materials", courseController.AddMaterial)
	courseGroup.Get("/:id/materials", courseController.GetMaterials)
	courseGroup.Post("/:id/videos", courseValidator.AddVideo(), courseController.AddVideoLecture)
	courseGroup.Get("/:id/videos", courseController.GetCourseVideos)
	courseGroup.Post("/:id/schedule", courseValidator.AddSchedule(), courseController.AddScheduleItem)
	courseGroup.Get("/:id/schedule", courseController.GetSchedule)
	courseGroup.Post("/:id/announcements", courseValidator.AddAnnouncement(), courseController.AddAnnouncement)
	courseGroup.Get("/:id/announcements", courseController.GetAnnouncements)
}
