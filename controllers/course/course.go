package courseController

import (
	"log"

	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	courseValidator "fportal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// requireActor resolves the authenticated user or writes the error response.
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
	if !user.IsActive {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been deactivated.", nil)
		return nil, false
	}
	return &user, true
}

// requireCourseAccess resolves actor and course from the :id param and
// evaluates the access policy, writing the error response on failure.
func requireCourseAccess(c *fiber.Ctx, action policy.Action) (*models.User, *models.Course, bool) {
	user, ok := requireActor(c)
	if !ok {
		return nil, nil, false
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		return nil, nil, false
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil, nil, false
	}

	decision := policy.Decide(database.Database.Db, user, &course, action)
	if !decision.Allow {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, decision.Reason, nil)
		return nil, nil, false
	}

	return user, &course, true
}

func CreateCourse(c *fiber.Ctx) error {
	user, ok := requireActor(c)
	if !ok {
		return nil
	}

	if user.Role != models.RoleFaculty && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only faculty can create courses!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Duplicate code check: case-insensitive among active courses. The code
	// is already uppercased by the validator.
	var existing models.Course
	if err := db.Where("UPPER(code) = ? AND is_deleted = ?", reqData.Code, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A course with this code already exists!", nil)
	}

	course := models.Course{
		Name:        reqData.Name,
		Code:        reqData.Code,
		Description: *reqData.Description,
		Semester:    reqData.Semester,
		Year:        reqData.Year,
		Credits:     reqData.Credits,
		FacultyID:   user.ID,
		IsActive:    true,
	}

	if err := db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	// Mirror the teaching relationship on the user side. On failure the
	// nightly reconciler backfills it.
	if _, err := policy.EnsureRef(db, user.ID, course.ID, models.RefTeaching); err != nil {
		log.Printf("Failed to mirror teaching ref for course %d: %v", course.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", courseResponse(&course, 0))
}

func courseResponse(course *models.Course, enrollmentCount int64) fiber.Map {
	return fiber.Map{
		"course":           course,
		"enrollment_count": enrollmentCount,
	}
}

func GetAllCourses(c *fiber.Ctx) error {
	if _, ok := requireActor(c); !ok {
		return nil
	}

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ? AND is_active = ?", false, true)

	// Pagination defaults when the validator is not in the chain
	page, limit := 1, 10
	if reqData, ok := c.Locals("validatedList").(*courseValidator.PaginationRequest); ok {
		if reqData.Page != nil {
			page = *reqData.Page
		}
		if reqData.Limit != nil {
			limit = *reqData.Limit
		}
	}
	offset := (page - 1) * limit

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetCourseDetails(c *fiber.Ctx) error {
	_, course, ok := requireCourseAccess(c, policy.ActionView)
	if !ok {
		return nil
	}

	db := database.Database.Db

	var faculty models.User
	db.Select("id", "name", "email", "department").Where("id = ?", course.FacultyID).First(&faculty)

	var tas []models.CourseTA
	db.Preload("User").Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&tas)

	taUsers := make([]fiber.Map, 0, len(tas))
	for _, ta := range tas {
		taUsers = append(taUsers, fiber.Map{
			"id":    ta.User.ID,
			"name":  ta.User.Name,
			"email": ta.User.Email,
		})
	}

	// Derived counts always come from the live rows, not the stats cache.
	enrollmentCount := course.EnrollmentCount(db)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":              course,
		"faculty":             fiber.Map{"id": faculty.ID, "name": faculty.Name, "email": faculty.Email},
		"teaching_assistants": taUsers,
		"enrollment_count":    enrollmentCount,
	})
}
