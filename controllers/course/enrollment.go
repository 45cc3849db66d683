package courseController

import (
	"fmt"
	"log"
	"time"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can enroll in courses!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	var existing models.Enrollment
	if err := db.Where("course_id = ? AND student_id = ? AND is_deleted = ?", course.ID, user.ID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are already enrolled in this course!", nil)
	}

	enrollment := models.Enrollment{
		CourseID:   course.ID,
		StudentID:  user.ID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}

	tx := db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	// Mirror the enrollment on the user side; the reconciler backfills on
	// failure.
	if _, err := policy.EnsureRef(db, user.ID, course.ID, models.RefEnrolled); err != nil {
		log.Printf("Failed to mirror enrollment ref for course %d: %v", course.ID, err)
	}

	course.RefreshStats(db)

	utils.Notify(utils.NotifyInput{
		Type:     models.NotificationEnrollmentNew,
		SenderID: user.ID,
		Title:    "New enrollment in " + course.Code,
		Message:  fmt.Sprintf("%s enrolled in %s (%s).", user.Name, course.Name, course.Code),
		RefType:  "COURSE",
		RefID:    course.ID,
	}, []uint{course.FacultyID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetCourseRoster lists a course's enrollments with grades. Grade access is
// required so students cannot fetch each other's standing.
func GetCourseRoster(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionGrade)
	if !ok {
		return nil
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Preload("Student").
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at asc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	for i := range enrollments {
		enrollments[i].Student.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// DropCourse marks the student's own enrollment as dropped. The mirror
// entry is intentionally left in place: it records history and the live
// policy checks enrollment status, not the mirror.
func DropCourse(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.Where("course_id = ? AND student_id = ? AND status = ? AND is_deleted = ?",
		courseID, user.ID, models.EnrollmentActive, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No active enrollment found for this course!", nil)
	}

	if err := db.Model(&enrollment).Update("status", models.EnrollmentDropped).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to drop course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course dropped successfully!", enrollment)
}
