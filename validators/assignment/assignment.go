package assignmentValidator

import (
	"strings"
	"time"

	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateAssignmentRequest is the validated assignment creation payload.
type CreateAssignmentRequest struct {
	CourseID         uint      `json:"course_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	MaxPoints        float64   `json:"max_points"`
	SubmissionType   string    `json:"submission_type"`
	AvailableFrom    time.Time `json:"available_from"`
	DueDate          time.Time `json:"due_date"`
	IsPublished      bool      `json:"is_published"`
	AllowedFileTypes string    `json:"allowed_file_types"`
	MaxFileSize      int64     `json:"max_file_size"`
}

// GradeRequest is the validated grading payload. Grade is a pointer so a
// missing grade is distinguishable from an explicit zero.
type GradeRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssignmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.MaxPoints <= 0 {
			errors["max_points"] = "Max points must be greater than 0!"
		}

		reqData.SubmissionType = strings.ToUpper(strings.TrimSpace(reqData.SubmissionType))
		switch reqData.SubmissionType {
		case "":
			reqData.SubmissionType = models.SubmissionTypeBoth
		case models.SubmissionTypeText, models.SubmissionTypeFile, models.SubmissionTypeBoth:
		default:
			errors["submission_type"] = "Submission type must be one of TEXT, FILE, BOTH!"
		}

		if reqData.AvailableFrom.IsZero() {
			reqData.AvailableFrom = time.Now()
		}
		if reqData.DueDate.IsZero() {
			errors["due_date"] = "Due date is required!"
		} else if !reqData.DueDate.After(reqData.AvailableFrom) {
			errors["due_date"] = "Due date must be after the available-from date!"
		}

		if reqData.MaxFileSize < 0 {
			errors["max_file_size"] = "Max file size cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

func Grade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Grade == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"grade": "Grade is required!"})
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
