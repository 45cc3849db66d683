package courseValidator

import (
	"strings"

	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the validated course creation payload. Description
// is a pointer so "present but empty" can be told apart from "missing".
type CreateCourseRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description *string `json:"description"`
	Semester    string  `json:"semester"`
	Year        int     `json:"year"`
	Credits     int     `json:"credits"`
}

// PaginationRequest is the shared list query shape.
type PaginationRequest struct {
	Page  *int `query:"page" json:"page"`
	Limit *int `query:"limit" json:"limit"`
}

// AssignTARequest names the user to assign as teaching assistant.
type AssignTARequest struct {
	UserID uint `json:"user_id"`
}

// AddScheduleRequest is a validated schedule item payload.
type AddScheduleRequest struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Type      string `json:"type"`
}

// AddAnnouncementRequest is a validated announcement payload.
type AddAnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AddVideoRequest is a validated video lecture payload.
type AddVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
}

var validScheduleDays = map[string]bool{
	"MONDAY": true, "TUESDAY": true, "WEDNESDAY": true, "THURSDAY": true,
	"FRIDAY": true, "SATURDAY": true, "SUNDAY": true,
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
		if reqData.Code == "" {
			errors["code"] = "Code is required!"
		}

		// Description may be empty but must be present in the payload.
		if reqData.Description == nil {
			errors["description"] = "Description is required!"
		}

		reqData.Semester = strings.ToUpper(strings.TrimSpace(reqData.Semester))
		if !models.ValidSemester(reqData.Semester) {
			errors["semester"] = "Semester must be one of FALL, SPRING, SUMMER!"
		}

		if reqData.Year < 2020 || reqData.Year > 2030 {
			errors["year"] = "Year must be between 2020 and 2030!"
		}

		if reqData.Credits < 1 || reqData.Credits > 6 {
			errors["credits"] = "Credits must be between 1 and 6!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaginationRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func AssignTA() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssignTARequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.UserID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"user_id": "User ID is required!"})
		}

		c.Locals("validatedTA", reqData)
		return c.Next()
	}
}

func AddSchedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddScheduleRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.DayOfWeek = strings.ToUpper(strings.TrimSpace(reqData.DayOfWeek))
		if !validScheduleDays[reqData.DayOfWeek] {
			errors["day_of_week"] = "Day of week is not valid!"
		}
		if strings.TrimSpace(reqData.StartTime) == "" {
			errors["start_time"] = "Start time is required!"
		}
		if strings.TrimSpace(reqData.EndTime) == "" {
			errors["end_time"] = "End time is required!"
		}

		reqData.Type = strings.ToUpper(strings.TrimSpace(reqData.Type))
		if reqData.Type == "" {
			reqData.Type = "LECTURE"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSchedule", reqData)
		return c.Next()
	}
}

func AddAnnouncement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddAnnouncementRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnnouncement", reqData)
		return c.Next()
	}
}

func AddVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddVideoRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}
