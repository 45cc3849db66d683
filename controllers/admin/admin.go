package adminController

import (
	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	"fportal/policy"
	"fportal/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats aggregates headline counts for the admin dashboard. All
// counts come from the live rows, not cached counters.
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	countWhere := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		db.Model(model).Where(query, args...).Count(&n)
		return n
	}

	stats := fiber.Map{
		"users": fiber.Map{
			"total":    countWhere(&models.User{}, "is_deleted = ?", false),
			"students": countWhere(&models.User{}, "role = ? AND is_deleted = ?", models.RoleStudent, false),
			"faculty":  countWhere(&models.User{}, "role = ? AND is_deleted = ?", models.RoleFaculty, false),
			"tas":      countWhere(&models.User{}, "role = ? AND is_deleted = ?", models.RoleTA, false),
			"inactive": countWhere(&models.User{}, "is_active = ? AND is_deleted = ?", false, false),
		},
		"courses":     countWhere(&models.Course{}, "is_deleted = ?", false),
		"enrollments": countWhere(&models.Enrollment{}, "status = ? AND is_deleted = ?", models.EnrollmentActive, false),
		"assignments": countWhere(&models.Assignment{}, "is_deleted = ?", false),
		"submissions": fiber.Map{
			"total":    countWhere(&models.Submission{}, "is_deleted = ?", false),
			"ungraded": countWhere(&models.Submission{}, "is_graded = ? AND is_deleted = ?", false, false),
		},
		"forums": countWhere(&models.Forum{}, "is_deleted = ?", false),
		"videos": countWhere(&models.VideoLecture{}, "is_deleted = ?", false),
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}

func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if active := c.Query("active"); active == "true" {
		db = db.Where("is_active = ?", true)
	} else if active == "false" {
		db = db.Where("is_active = ?", false)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset((page - 1) * limit).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// RecentActivity lists the latest registrations, submissions and forum
// threads for the dashboard feed.
func RecentActivity(c *fiber.Ctx) error {
	db := database.Database.Db

	var users []models.User
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(10).Find(&users)
	for i := range users {
		users[i].Password = ""
	}

	var submissions []models.Submission
	db.Preload("Student").Where("is_deleted = ?", false).Order("created_at desc").Limit(10).Find(&submissions)
	for i := range submissions {
		submissions[i].Student.Password = ""
	}

	var forums []models.Forum
	db.Preload("Author").Where("is_deleted = ?", false).Order("created_at desc").Limit(10).Find(&forums)
	for i := range forums {
		forums[i].Author.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent activity fetched successfully!", fiber.Map{
		"recent_users":       users,
		"recent_submissions": submissions,
		"recent_forums":      forums,
	})
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role == models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot be deactivated!", nil)
	}

	user.IsActive = !user.IsActive
	if err := db.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user status!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", user)
}

// FixAccessControl runs a full-corpus mirror reconciliation on demand and
// returns the report.
func FixAccessControl(c *fiber.Ctx) error {
	report, err := policy.ReconcileAll(database.Database.Db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Reconciliation failed: "+err.Error(), report)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access control reconciled successfully!", report)
}

// TriggerScheduledFix exists so operators can exercise the cron job path
// without waiting for the schedule.
func TriggerScheduledFix(c *fiber.Ctx) error {
	go utils.RunAccessControlFix()
	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Reconciliation started.", nil)
}
