package videoController

import (
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	videoValidator "fportal/validators/video"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
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

// requireVideoAccess loads the video from :id and checks course view access.
func requireVideoAccess(c *fiber.Ctx) (*models.User, *models.VideoLecture, bool) {
	user, ok := requireActor(c)
	if !ok {
		return nil, nil, false
	}

	videoID, err := c.ParamsInt("id")
	if err != nil || videoID < 1 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid video ID!", nil)
		return nil, nil, false
	}

	db := database.Database.Db

	var video models.VideoLecture
	if err := db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
		return nil, nil, false
	}

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", video.CourseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, nil, false
	}

	decision := policy.Decide(db, user, &course, policy.ActionView)
	if !decision.Allow {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
		return nil, nil, false
	}

	if user.Role == models.RoleStudent && !video.IsVisible {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
		return nil, nil, false
	}

	return user, &video, true
}

func GetVideoDetails(c *fiber.Ctx) error {
	user, video, ok := requireVideoAccess(c)
	if !ok {
		return nil
	}

	db := database.Database.Db

	var comments []models.VideoComment
	db.Preload("Author").
		Where("video_id = ? AND is_deleted = ?", video.ID, false).
		Order("created_at asc").Find(&comments)
	for i := range comments {
		comments[i].Author.Password = ""
	}

	var likeCount int64
	db.Model(&models.VideoLike{}).Where("video_id = ? AND is_deleted = ?", video.ID, false).Count(&likeCount)

	var liked bool
	var myLike models.VideoLike
	if err := db.Where("video_id = ? AND user_id = ? AND is_deleted = ?", video.ID, user.ID, false).
		First(&myLike).Error; err == nil {
		liked = true
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video fetched successfully!", fiber.Map{
		"video":      video,
		"comments":   comments,
		"like_count": likeCount,
		"liked":      liked,
	})
}

func AddComment(c *fiber.Ctx) error {
	user, video, ok := requireVideoAccess(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedComment").(*videoValidator.CommentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	comment := models.VideoComment{
		VideoID:  video.ID,
		AuthorID: user.ID,
		Content:  reqData.Content,
	}

	if err := database.Database.Db.Create(&comment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post comment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment posted successfully!", comment)
}

// ToggleLike flips the caller's like on a video. One row per (video, user);
// toggling off soft-deletes it, toggling back on revives the same row.
func ToggleLike(c *fiber.Ctx) error {
	user, video, ok := requireVideoAccess(c)
	if !ok {
		return nil
	}

	db := database.Database.Db

	var like models.VideoLike
	err := db.Where("video_id = ? AND user_id = ?", video.ID, user.ID).First(&like).Error

	liked := false
	switch {
	case err == gorm.ErrRecordNotFound:
		like = models.VideoLike{VideoID: video.ID, UserID: user.ID}
		if err := db.Create(&like).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to like video!", nil)
		}
		liked = true
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to like video!", nil)
	default:
		liked = like.IsDeleted // reviving a soft-deleted like turns it back on
		if err := db.Model(&like).Update("is_deleted", !like.IsDeleted).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to like video!", nil)
		}
	}

	var likeCount int64
	db.Model(&models.VideoLike{}).Where("video_id = ? AND is_deleted = ?", video.ID, false).Count(&likeCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Like updated successfully!", fiber.Map{
		"liked":      liked,
		"like_count": likeCount,
	})
}

// MarkComplete upserts the caller's completion record. Watch time is
// monotonic: the stored value only ever grows.
func MarkComplete(c *fiber.Ctx) error {
	user, video, ok := requireVideoAccess(c)
	if !ok {
		return nil
	}

	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students track video completion!", nil)
	}

	reqData, ok := c.Locals("validatedComplete").(*videoValidator.CompleteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	completion := models.VideoCompletion{VideoID: video.ID, StudentID: user.ID}
	if err := db.Where("video_id = ? AND student_id = ?", video.ID, user.ID).
		FirstOrCreate(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.WatchTime > completion.WatchTime {
		completion.WatchTime = reqData.WatchTime
		updates["watch_time"] = reqData.WatchTime
	}
	if reqData.Completed && !completion.Completed {
		now := time.Now()
		completion.Completed = true
		completion.CompletedAt = &now
		updates["completed"] = true
		updates["completed_at"] = now
	}

	if len(updates) > 0 {
		if err := db.Model(&completion).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion recorded successfully!", completion)
}
