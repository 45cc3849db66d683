package forumValidator

import (
	"strings"

	"fportal/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateForumRequest is the validated forum thread payload.
type CreateForumRequest struct {
	CourseID uint   `json:"course_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// ReplyRequest is the validated reply payload.
type ReplyRequest struct {
	Content string `json:"content"`
}

// StatusRequest updates a thread's pinned/resolved flags. Pointers so that
// omitted fields stay untouched.
type StatusRequest struct {
	IsPinned   *bool `json:"is_pinned"`
	IsResolved *bool `json:"is_resolved"`
}

func CreateForum() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateForumRequest)

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
		if strings.TrimSpace(reqData.Content) == "" {
			errors["content"] = "Content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedForum", reqData)
		return c.Next()
	}
}

func Reply() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReplyRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Content) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"content": "Content is required!"})
		}

		c.Locals("validatedReply", reqData)
		return c.Next()
	}
}

func Status() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StatusRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsPinned == nil && reqData.IsResolved == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "At least one of is_pinned or is_resolved is required!",
			})
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}
