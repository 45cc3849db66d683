package courseController

import (
	"fmt"
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"
	courseValidator "fportal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// activeStudentIDs returns the ids of actively enrolled students, used for
// notification fan-out.
func activeStudentIDs(courseID uint) []uint {
	var enrollments []models.Enrollment
	database.Database.Db.Select("student_id").
		Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, models.EnrollmentActive, false).
		Find(&enrollments)

	ids := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	return ids
}

func AddMaterial(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionUpload)
	if !ok {
		return nil
	}

	title := c.FormValue("title")
	if title == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "A file is required!"})
	}

	fileURL, err := utils.SaveUploadedFile(file, "materials", "file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store uploaded file!", nil)
	}

	material := models.CourseMaterial{
		CourseID:    course.ID,
		Title:       title,
		Description: c.FormValue("description"),
		FileURL:     fileURL,
		FileName:    file.Filename,
		UploadedBy:  user.ID,
		IsVisible:   true,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	course.RefreshStats(database.Database.Db)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material added successfully!", material)
}

func GetMaterials(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionView)
	if !ok {
		return nil
	}

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false)
	// Students only see visible materials
	if user.Role == models.RoleStudent {
		db = db.Where("is_visible = ?", true)
	}

	var materials []models.CourseMaterial
	if err := db.Order("created_at desc").Find(&materials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Materials fetched successfully!", fiber.Map{
		"materials": materials,
		"total":     len(materials),
	})
}

func AddVideoLecture(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionUpload)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedVideo").(*courseValidator.AddVideoRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	video := models.VideoLecture{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		Duration:    reqData.Duration,
		UploadedBy:  user.ID,
		IsVisible:   true,
	}

	if err := database.Database.Db.Create(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add video lecture!", nil)
	}

	course.RefreshStats(database.Database.Db)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video lecture added successfully!", video)
}

func GetCourseVideos(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionView)
	if !ok {
		return nil
	}

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false)
	if user.Role == models.RoleStudent {
		db = db.Where("is_visible = ?", true)
	}

	var videos []models.VideoLecture
	if err := db.Order("created_at asc").Find(&videos).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch video lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video lectures fetched successfully!", fiber.Map{
		"videos": videos,
		"total":  len(videos),
	})
}

func AddScheduleItem(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionManage)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedSchedule").(*courseValidator.AddScheduleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	item := models.ScheduleItem{
		CourseID:  course.ID,
		DayOfWeek: reqData.DayOfWeek,
		StartTime: reqData.StartTime,
		EndTime:   reqData.EndTime,
		Location:  reqData.Location,
		Type:      reqData.Type,
		IsVisible: true,
	}

	if err := database.Database.Db.Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add schedule item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Schedule item added successfully!", item)
}

func GetSchedule(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionView)
	if !ok {
		return nil
	}

	var items []models.ScheduleItem
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_visible = ?", course.ID, false, true).
		Find(&items).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule fetched successfully!", fiber.Map{
		"schedule": items,
	})
}

func AddAnnouncement(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionUpload)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedAnnouncement").(*courseValidator.AddAnnouncementRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	announcement := models.Announcement{
		CourseID:  course.ID,
		AuthorID:  user.ID,
		Title:     reqData.Title,
		Content:   reqData.Content,
		PostedAt:  time.Now(),
		IsVisible: true,
	}

	if err := database.Database.Db.Create(&announcement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post announcement!", nil)
	}

	utils.Notify(utils.NotifyInput{
		Type:     models.NotificationAnnouncement,
		SenderID: user.ID,
		Title:    fmt.Sprintf("[%s] %s", course.Code, reqData.Title),
		Message:  reqData.Content,
		RefType:  "COURSE",
		RefID:    course.ID,
	}, activeStudentIDs(course.ID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Announcement posted successfully!", announcement)
}

func GetAnnouncements(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionView)
	if !ok {
		return nil
	}

	var announcements []models.Announcement
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_visible = ?", course.ID, false, true).
		Order("posted_at desc").Find(&announcements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch announcements!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Announcements fetched successfully!", fiber.Map{
		"announcements": announcements,
	})
}
