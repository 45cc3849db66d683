package chatController

import (
	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/ws"

	"github.com/gofiber/fiber/v2"
)

// StartConversationRequest names the counterpart for a new direct-message
// thread.
type StartConversationRequest struct {
	UserID uint `json:"user_id"`
}

func GetConversations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var conversations []models.Conversation
	if err := database.Database.Db.
		Where("(participant_a = ? OR participant_b = ?) AND is_deleted = ?", userID, userID, false).
		Order("updated_at desc").Find(&conversations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	out := make([]fiber.Map, 0, len(conversations))
	for _, conv := range conversations {
		otherID := conv.OtherParticipant(userID)

		var other models.User
		database.Database.Db.Select("id", "name", "role").Where("id = ?", otherID).First(&other)

		var lastMessage models.ChatMessage
		database.Database.Db.Where("conversation_id = ? AND is_deleted = ?", conv.ID, false).
			Order("created_at desc").First(&lastMessage)

		out = append(out, fiber.Map{
			"conversation": conv,
			"participant":  fiber.Map{"id": other.ID, "name": other.Name, "role": other.Role, "online": ws.DefaultHub.Online(other.ID)},
			"last_message": lastMessage,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversations fetched successfully!", fiber.Map{
		"conversations": out,
	})
}

func StartConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(StartConversationRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.UserID == 0 || reqData.UserID == userID {
		return middleware.ValidationErrorResponse(c, map[string]string{"user_id": "A valid counterpart user ID is required!"})
	}

	db := database.Database.Db

	var other models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&other).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Normalize the pair so (a,b) and (b,a) map to one row.
	a, b := userID, reqData.UserID
	if a > b {
		a, b = b, a
	}

	conversation := models.Conversation{ParticipantA: a, ParticipantB: b}
	if err := db.Where("participant_a = ? AND participant_b = ?", a, b).
		FirstOrCreate(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start conversation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation ready!", conversation)
}

func GetMessages(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID, err := c.ParamsInt("id")
	if err != nil || conversationID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid conversation ID!", nil)
	}

	db := database.Database.Db

	var conversation models.Conversation
	if err := db.Where("id = ? AND is_deleted = ?", conversationID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}
	if !conversation.HasParticipant(userID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not part of this conversation!", nil)
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := db.Where("conversation_id = ? AND is_deleted = ?", conversation.ID, false).
		Order("created_at desc").Limit(limit).Find(&messages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	// Reading the thread marks the counterpart's messages as read
	db.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = ?", conversation.ID, userID, false).
		Update("is_read", true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages fetched successfully!", fiber.Map{
		"messages": messages,
	})
}
