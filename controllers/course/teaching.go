package courseController

import (
	"fmt"
	"log"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"
	courseValidator "fportal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// coursesByRef serves the "my courses" views from the user-side mirror, the
// same way the original read the per-user back-reference arrays.
func coursesByRef(c *fiber.Ctx, refRole string) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	var refs []models.CourseRef
	if err := database.Database.Db.Preload("Course").
		Where("user_id = ? AND role = ?", user.ID, refRole).
		Find(&refs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	courses := make([]models.Course, 0, len(refs))
	for _, ref := range refs {
		if !ref.Course.IsDeleted {
			courses = append(courses, ref.Course)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetMyCourses dispatches on the caller's role to the matching mirror view.
func GetMyCourses(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	switch role {
	case models.RoleFaculty:
		return coursesByRef(c, models.RefTeaching)
	case models.RoleTA:
		return coursesByRef(c, models.RefAssisting)
	default:
		return coursesByRef(c, models.RefEnrolled)
	}
}

func GetTeachingCourses(c *fiber.Ctx) error {
	return coursesByRef(c, models.RefTeaching)
}

func GetAssistingCourses(c *fiber.Ctx) error {
	return coursesByRef(c, models.RefAssisting)
}

func GetEnrolledCourses(c *fiber.Ctx) error {
	return coursesByRef(c, models.RefEnrolled)
}

func AssignTA(c *fiber.Ctx) error {
	user, course, ok := requireCourseAccess(c, policy.ActionManage)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedTA").(*courseValidator.AssignTARequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var ta models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&ta).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if ta.Role != models.RoleTA {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is not a teaching assistant!", nil)
	}

	var existing models.CourseTA
	if err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", course.ID, ta.ID, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is already a TA for this course!", nil)
	}

	assignment := models.CourseTA{CourseID: course.ID, UserID: ta.ID}
	if err := db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign TA!", nil)
	}

	if _, err := policy.EnsureRef(db, ta.ID, course.ID, models.RefAssisting); err != nil {
		log.Printf("Failed to mirror assisting ref for course %d: %v", course.ID, err)
	}

	utils.Notify(utils.NotifyInput{
		Type:     models.NotificationSystem,
		SenderID: user.ID,
		Title:    "Assigned as TA for " + course.Code,
		Message:  fmt.Sprintf("You have been assigned as a teaching assistant for %s (%s).", course.Name, course.Code),
		RefType:  "COURSE",
		RefID:    course.ID,
	}, []uint{ta.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "TA assigned successfully!", assignment)
}

// RemoveTA soft-deletes the assignment. The mirror entry is deliberately
// not removed here: the reconciler is additive-only and the policy reads
// the authoritative CourseTA rows, so a stale mirror entry grants nothing.
func RemoveTA(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionManage)
	if !ok {
		return nil
	}

	taID, err := c.ParamsInt("taId")
	if err != nil || taID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid TA ID!", nil)
	}

	db := database.Database.Db

	var assignment models.CourseTA
	if err := db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", course.ID, taID, false).
		First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "TA assignment not found!", nil)
	}

	if err := db.Model(&assignment).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove TA!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "TA removed successfully!", nil)
}
