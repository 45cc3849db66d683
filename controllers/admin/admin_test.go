package adminController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fportal/config"
	"fportal/database"
	"fportal/middleware"
	"fportal/models"
	adminRoutes "fportal/routers/adminRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	adminRoutes.SetupAdminRoutes(app)
	return app, db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role string) (*models.User, string) {
	t.Helper()

	userSeq++
	user := models.User{
		Name:     fmt.Sprintf("%s %d", role, userSeq),
		Email:    fmt.Sprintf("user%d@university.edu", userSeq),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	data, _ := out["data"].(map[string]interface{})
	return data
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, db := setupApp(t)
	_, facultyToken := seedUser(t, db, models.RoleFaculty)

	resp := request(t, app, fiber.MethodGet, "/admin/stats", facultyToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/admin/stats", nil)
	noAuth, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, noAuth.StatusCode)
}

func TestDashboardStats(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := seedUser(t, db, models.RoleAdmin)
	faculty, _ := seedUser(t, db, models.RoleFaculty)
	student, _ := seedUser(t, db, models.RoleStudent)

	course := models.Course{
		Name: "Ethics", Code: "PHIL101", Semester: models.SemesterFall,
		Year: 2025, Credits: 2, FacultyID: faculty.ID, IsActive: true,
	}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		CourseID: course.ID, StudentID: student.ID,
		Status: models.EnrollmentActive, EnrolledAt: time.Now(),
	}).Error)

	resp := request(t, app, fiber.MethodGet, "/admin/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeData(t, resp)
	users := data["users"].(map[string]interface{})
	assert.EqualValues(t, 3, users["total"])
	assert.EqualValues(t, 1, users["students"])
	assert.EqualValues(t, 1, users["faculty"])
	assert.EqualValues(t, 1, data["courses"])
	assert.EqualValues(t, 1, data["enrollments"])
}

func TestToggleUserStatus(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := seedUser(t, db, models.RoleAdmin)
	otherAdmin, _ := seedUser(t, db, models.RoleAdmin)
	student, _ := seedUser(t, db, models.RoleStudent)

	resp := request(t, app, fiber.MethodPut,
		fmt.Sprintf("/admin/users/%d/toggle-status", student.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var check models.User
	require.NoError(t, db.First(&check, student.ID).Error)
	assert.False(t, check.IsActive)

	// Toggling again reactivates
	resp = request(t, app, fiber.MethodPut,
		fmt.Sprintf("/admin/users/%d/toggle-status", student.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, db.First(&check, student.ID).Error)
	assert.True(t, check.IsActive)

	// Admin accounts are protected
	resp = request(t, app, fiber.MethodPut,
		fmt.Sprintf("/admin/users/%d/toggle-status", otherAdmin.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestListUsersFilters(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := seedUser(t, db, models.RoleAdmin)
	seedUser(t, db, models.RoleStudent)
	seedUser(t, db, models.RoleStudent)
	faculty, _ := seedUser(t, db, models.RoleFaculty)
	require.NoError(t, db.Model(faculty).Update("is_active", false).Error)

	resp := request(t, app, fiber.MethodGet, "/admin/users?role=STUDENT", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Len(t, data["users"].([]interface{}), 2)

	resp = request(t, app, fiber.MethodGet, "/admin/users?active=false", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Len(t, data["users"].([]interface{}), 1)
}

func TestFixAccessControlEndpoint(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := seedUser(t, db, models.RoleAdmin)
	faculty, _ := seedUser(t, db, models.RoleFaculty)
	student, _ := seedUser(t, db, models.RoleStudent)

	// A course whose relationships were never mirrored
	course := models.Course{
		Name: "Linear Algebra", Code: "MATH201", Semester: models.SemesterFall,
		Year: 2025, Credits: 4, FacultyID: faculty.ID, IsActive: true,
	}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		CourseID: course.ID, StudentID: student.ID,
		Status: models.EnrollmentActive, EnrolledAt: time.Now(),
	}).Error)

	resp := request(t, app, fiber.MethodPost, "/admin/access-control/fix", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	report := decodeData(t, resp)
	assert.EqualValues(t, 1, report["courses_checked"])
	assert.EqualValues(t, 1, report["courses_fixed"])
	assert.EqualValues(t, 2, report["relationships_fixed"])

	var refs int64
	db.Model(&models.CourseRef{}).Where("course_id = ?", course.ID).Count(&refs)
	assert.EqualValues(t, 2, refs)

	// A second run finds nothing to do
	resp = request(t, app, fiber.MethodPost, "/admin/access-control/fix", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	report = decodeData(t, resp)
	assert.EqualValues(t, 0, report["relationships_fixed"])
}
