package forumController_test

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
	forumRoutes "fportal/routers/forumRoutes"

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
	forumRoutes.SetupForumRoutes(app)
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

func seedCourseWithStudents(t *testing.T, db *gorm.DB, facultyID uint, studentIDs ...uint) *models.Course {
	t.Helper()

	course := models.Course{
		Name: "Networks", Code: fmt.Sprintf("CS%d", 600+userSeq),
		Semester: models.SemesterSpring, Year: 2026, Credits: 3,
		FacultyID: facultyID, IsActive: true,
	}
	require.NoError(t, db.Create(&course).Error)

	for _, sid := range studentIDs {
		require.NoError(t, db.Create(&models.Enrollment{
			CourseID: course.ID, StudentID: sid,
			Status: models.EnrollmentActive, EnrolledAt: time.Now(),
		}).Error)
	}
	return &course
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

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestForumThreadAndReplies(t *testing.T) {
	app, db := setupApp(t)
	faculty, _ := seedUser(t, db, models.RoleFaculty)
	ta, taToken := seedUser(t, db, models.RoleTA)
	author, authorToken := seedUser(t, db, models.RoleStudent)
	peer, peerToken := seedUser(t, db, models.RoleStudent)
	course := seedCourseWithStudents(t, db, faculty.ID, author.ID, peer.ID)
	require.NoError(t, db.Create(&models.CourseTA{CourseID: course.ID, UserID: ta.ID}).Error)

	resp := request(t, app, fiber.MethodPost, "/forums/", authorToken, fiber.Map{
		"course_id": course.ID,
		"title":     "Why does my TCP lab hang?",
		"content":   "It blocks on accept forever.",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	forumID := uint(body["data"].(map[string]interface{})["ID"].(float64))

	// TA reply carries the instructor flag, snapshotted at post time
	resp = request(t, app, fiber.MethodPost, fmt.Sprintf("/forums/%d/reply", forumID), taToken,
		fiber.Map{"content": "Check whether you bound to the right port."})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	reply := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, true, reply["is_instructor_reply"])

	// Peer reply does not
	resp = request(t, app, fiber.MethodPost, fmt.Sprintf("/forums/%d/reply", forumID), peerToken,
		fiber.Map{"content": "Same issue here."})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	reply = decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, false, reply["is_instructor_reply"])

	// The author was notified once per foreign reply
	var n int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", author.ID, models.NotificationForumReply).
		Count(&n)
	assert.EqualValues(t, 2, n)

	resp = request(t, app, fiber.MethodGet, fmt.Sprintf("/forums/%d", forumID), authorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Len(t, data["replies"].([]interface{}), 2)
}

func TestForumRequiresEnrollment(t *testing.T) {
	app, db := setupApp(t)
	faculty, _ := seedUser(t, db, models.RoleFaculty)
	_, outsiderToken := seedUser(t, db, models.RoleStudent)
	course := seedCourseWithStudents(t, db, faculty.ID)

	resp := request(t, app, fiber.MethodPost, "/forums/", outsiderToken, fiber.Map{
		"course_id": course.ID,
		"title":     "Hello from outside",
		"content":   "Can anyone see this?",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, fiber.MethodGet, fmt.Sprintf("/forums/?course_id=%d", course.ID), outsiderToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestForumStatusPermissions(t *testing.T) {
	app, db := setupApp(t)
	faculty, facultyToken := seedUser(t, db, models.RoleFaculty)
	author, authorToken := seedUser(t, db, models.RoleStudent)
	peer, peerToken := seedUser(t, db, models.RoleStudent)
	course := seedCourseWithStudents(t, db, faculty.ID, author.ID, peer.ID)

	forum := models.Forum{CourseID: course.ID, AuthorID: author.ID, Title: "Solved?", Content: "..."}
	require.NoError(t, db.Create(&forum).Error)
	path := fmt.Sprintf("/forums/%d/status", forum.ID)

	// A non-author student cannot touch the thread status
	resp := request(t, app, fiber.MethodPut, path, peerToken, fiber.Map{"is_resolved": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The author can resolve their own thread
	resp = request(t, app, fiber.MethodPut, path, authorToken, fiber.Map{"is_resolved": true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var check models.Forum
	require.NoError(t, db.First(&check, forum.ID).Error)
	assert.True(t, check.IsResolved)

	// But pinning is staff-only
	resp = request(t, app, fiber.MethodPut, path, authorToken, fiber.Map{"is_pinned": true})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = request(t, app, fiber.MethodPut, path, facultyToken, fiber.Map{"is_pinned": true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&check, forum.ID).Error)
	assert.True(t, check.IsPinned)
}

func TestForumListPinnedFirst(t *testing.T) {
	app, db := setupApp(t)
	faculty, facultyToken := seedUser(t, db, models.RoleFaculty)
	course := seedCourseWithStudents(t, db, faculty.ID)

	older := models.Forum{CourseID: course.ID, AuthorID: faculty.ID, Title: "Logistics", Content: "...", IsPinned: true}
	require.NoError(t, db.Create(&older).Error)
	newer := models.Forum{CourseID: course.ID, AuthorID: faculty.ID, Title: "Week 3 question", Content: "..."}
	require.NoError(t, db.Create(&newer).Error)

	resp := request(t, app, fiber.MethodGet, fmt.Sprintf("/forums/?course_id=%d", course.ID), facultyToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	forums := data["forums"].([]interface{})
	require.Len(t, forums, 2)
	first := forums[0].(map[string]interface{})
	assert.Equal(t, "Logistics", first["title"], "pinned threads sort first")
}
