package notificationController

import (
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
)

// MarkReadRequest names the notifications to mark as read. An empty list
// with All set marks everything.
type MarkReadRequest struct {
	IDs []uint `json:"ids"`
	All bool   `json:"all"`
}

func GetNotifications(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_deleted = ?", userID, false)

	if c.Query("unread") == "true" {
		db = db.Where("is_read = ?", false)
	}

	var total int64
	db.Count(&total)

	var unreadCount int64
	database.Database.Db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Count(&unreadCount)

	var notifications []models.Notification
	if err := db.Offset((page - 1) * limit).Limit(limit).
		Order("created_at desc").Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", fiber.Map{
		"notifications": notifications,
		"unread_count":  unreadCount,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func MarkRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(MarkReadRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if !reqData.All && len(reqData.IDs) == 0 {
		return middleware.ValidationErrorResponse(c, map[string]string{"ids": "Provide notification IDs or set all=true!"})
	}

	db := database.Database.Db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false)
	if !reqData.All {
		db = db.Where("id IN ?", reqData.IDs)
	}

	now := time.Now()
	result := db.Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark notifications as read!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read!", fiber.Map{
		"updated": result.RowsAffected,
	})
}
