package videoValidator

import (
	"strings"

	"fportal/middleware"

	"github.com/gofiber/fiber/v2"
)

// CommentRequest is the validated video comment payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CompleteRequest reports watch progress on a video.
type CompleteRequest struct {
	WatchTime int  `json:"watch_time"`
	Completed bool `json:"completed"`
}

func Comment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CommentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Content) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"content": "Content is required!"})
		}

		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}

func Complete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompleteRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.WatchTime < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"watch_time": "Watch time cannot be negative!"})
		}

		c.Locals("validatedComplete", reqData)
		return c.Next()
	}
}
