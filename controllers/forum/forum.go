package forumController

import (
	"fmt"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"
	forumValidator "fportal/validators/forum"

	"github.com/gofiber/fiber/v2"
)

func requireActor(c *fiber.Ctx) (*models.User, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
		return nil, false
	}
	return &user, true
}

// requireForumAccess loads the forum from :id, its course, and checks view
// access against the course.
func requireForumAccess(c *fiber.Ctx) (*models.User, *models.Forum, *models.Course, bool) {
	user, ok := requireActor(c)
	if !ok {
		return nil, nil, nil, false
	}

	forumID, err := c.ParamsInt("id")
	if err != nil || forumID < 1 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid forum ID!", nil)
		return nil, nil, nil, false
	}

	var forum models.Forum
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", forumID, false).First(&forum).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Forum thread not found!", nil)
		return nil, nil, nil, false
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", forum.CourseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, nil, nil, false
	}

	decision := policy.Decide(database.Database.Db, user, &course, policy.ActionView)
	if !decision.Allow {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
		return nil, nil, nil, false
	}

	return user, &forum, &course, true
}

func CreateForum(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedForum").(*forumValidator.CreateForumRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	decision := policy.Decide(db, user, &course, policy.ActionView)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	forum := models.Forum{
		CourseID: course.ID,
		AuthorID: user.ID,
		Title:    reqData.Title,
		Content:  reqData.Content,
	}

	if err := db.Create(&forum).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create forum thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Forum thread created successfully!", forum)
}

func GetForums(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	courseID := c.QueryInt("course_id")
	if courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "course_id query parameter is required!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	decision := policy.Decide(db, user, &course, policy.ActionView)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	var forums []models.Forum
	if err := db.Preload("Author").
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("is_pinned desc, created_at desc").Find(&forums).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch forum threads!", nil)
	}

	for i := range forums {
		forums[i].Author.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Forum threads fetched successfully!", fiber.Map{
		"forums": forums,
		"total":  len(forums),
	})
}

func GetForumDetails(c *fiber.Ctx) error {
	_, forum, _, ok := requireForumAccess(c)
	if !ok {
		return nil
	}

	var replies []models.ForumReply
	database.Database.Db.Preload("Author").
		Where("forum_id = ? AND is_deleted = ?", forum.ID, false).
		Order("created_at asc").Find(&replies)

	for i := range replies {
		replies[i].Author.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Forum thread fetched successfully!", fiber.Map{
		"forum":   forum,
		"replies": replies,
	})
}

func ReplyToForum(c *fiber.Ctx) error {
	user, forum, course, ok := requireForumAccess(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedReply").(*forumValidator.ReplyRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Snapshot of the author's role now, not a live lookup later.
	reply := models.ForumReply{
		ForumID:           forum.ID,
		AuthorID:          user.ID,
		Content:           reqData.Content,
		IsInstructorReply: user.IsInstructor(),
	}

	if err := database.Database.Db.Create(&reply).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post reply!", nil)
	}

	if forum.AuthorID != user.ID {
		utils.Notify(utils.NotifyInput{
			Type:     models.NotificationForumReply,
			SenderID: user.ID,
			Title:    fmt.Sprintf("[%s] New reply on: %s", course.Code, forum.Title),
			Message:  fmt.Sprintf("%s replied to your thread.", user.Name),
			RefType:  "FORUM",
			RefID:    forum.ID,
		}, []uint{forum.AuthorID})
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reply posted successfully!", reply)
}

// UpdateForumStatus lets the thread author or course staff pin/resolve a
// thread.
func UpdateForumStatus(c *fiber.Ctx) error {
	user, forum, course, ok := requireForumAccess(c)
	if !ok {
		return nil
	}

	isStaff := policy.Decide(database.Database.Db, user, course, policy.ActionGrade).Allow
	if forum.AuthorID != user.ID && !isStaff {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the author or course staff can update the thread status!", nil)
	}

	reqData, ok := c.Locals("validatedStatus").(*forumValidator.StatusRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.IsPinned != nil {
		// Pinning is a staff-only action
		if !isStaff {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only course staff can pin threads!", nil)
		}
		updates["is_pinned"] = *reqData.IsPinned
	}
	if reqData.IsResolved != nil {
		updates["is_resolved"] = *reqData.IsResolved
	}

	if err := database.Database.Db.Model(forum).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update thread status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread status updated successfully!", forum)
}
