package assignmentController

import (
	"fmt"
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"
	assignmentValidator "fportal/validators/assignment"

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

// loadCourse fetches an active course or writes a 404.
func loadCourse(c *fiber.Ctx, courseID uint) (*models.Course, bool) {
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, false
	}
	return &course, true
}

// loadAssignment fetches an assignment and its course, or writes a 404.
func loadAssignment(c *fiber.Ctx) (*models.Assignment, *models.Course, bool) {
	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID < 1 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment ID!", nil)
		return nil, nil, false
	}

	var assignment models.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).
		First(&assignment).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
		return nil, nil, false
	}

	course, ok := loadCourse(c, assignment.CourseID)
	if !ok {
		return nil, nil, false
	}
	return &assignment, course, true
}

func courseStaffIDs(course *models.Course) []uint {
	ids := []uint{course.FacultyID}

	var tas []models.CourseTA
	database.Database.Db.Select("user_id").
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Find(&tas)
	for _, ta := range tas {
		ids = append(ids, ta.UserID)
	}
	return ids
}

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

func CreateAssignment(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedAssignment").(*assignmentValidator.CreateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course, ok := loadCourse(c, reqData.CourseID)
	if !ok {
		return nil
	}

	decision := policy.Decide(database.Database.Db, user, course, policy.ActionUpload)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	assignment := models.Assignment{
		CourseID:         course.ID,
		Title:            reqData.Title,
		Description:      reqData.Description,
		MaxPoints:        reqData.MaxPoints,
		SubmissionType:   reqData.SubmissionType,
		AvailableFrom:    reqData.AvailableFrom,
		DueDate:          reqData.DueDate,
		IsPublished:      reqData.IsPublished,
		IsActive:         true,
		CreatedBy:        user.ID,
		AllowedFileTypes: reqData.AllowedFileTypes,
		MaxFileSize:      reqData.MaxFileSize,
	}
	if assignment.MaxFileSize == 0 {
		assignment.MaxFileSize = 10 << 20
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	if assignment.IsPublished {
		utils.Notify(utils.NotifyInput{
			Type:     models.NotificationAssignmentNew,
			SenderID: user.ID,
			Title:    fmt.Sprintf("[%s] New assignment: %s", course.Code, assignment.Title),
			Message:  fmt.Sprintf("A new assignment is due %s.", assignment.DueDate.Format(time.RFC1123)),
			RefType:  "ASSIGNMENT",
			RefID:    assignment.ID,
		}, activeStudentIDs(course.ID))
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

func GetAssignments(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	courseID := c.QueryInt("course_id")
	if courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "course_id query parameter is required!", nil)
	}

	course, ok := loadCourse(c, uint(courseID))
	if !ok {
		return nil
	}

	decision := policy.Decide(database.Database.Db, user, course, policy.ActionView)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false)
	// Students only see published assignments
	if user.Role == models.RoleStudent {
		db = db.Where("is_published = ?", true)
	}

	var assignments []models.Assignment
	if err := db.Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", fiber.Map{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

func GetAssignmentDetails(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	assignment, course, ok := loadAssignment(c)
	if !ok {
		return nil
	}

	decision := policy.Decide(database.Database.Db, user, course, policy.ActionView)
	if !decision.Allow {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
	}

	if user.Role == models.RoleStudent {
		if !assignment.IsPublished {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
		}
		// Students see their own submission only
		var submission models.Submission
		err := database.Database.Db.
			Where("assignment_id = ? AND student_id = ? AND is_deleted = ?", assignment.ID, user.ID, false).
			First(&submission).Error

		data := fiber.Map{"assignment": assignment}
		if err == nil {
			data["submission"] = submission
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", data)
	}

	var submissions []models.Submission
	database.Database.Db.Preload("Student").
		Where("assignment_id = ? AND is_deleted = ?", assignment.ID, false).
		Find(&submissions)
	for i := range submissions {
		submissions[i].Student.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment fetched successfully!", fiber.Map{
		"assignment":  assignment,
		"submissions": submissions,
	})
}
