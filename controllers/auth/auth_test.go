package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fportal/config"
	"fportal/database"
	"fportal/models"
	authRoutes "fportal/routers/authRoutes"

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
	authRoutes.SetupAuthRoutes(app)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

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

func TestRegisterStudent(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"name":       "Alice Chen",
		"email":      "alice@university.edu",
		"password":   "supersecret",
		"role":       "STUDENT",
		"student_id": "S2025001",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@university.edu").First(&user).Error)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "S2025001", user.StudentID)
	assert.NotEqual(t, "supersecret", user.Password, "password must be stored hashed")

	// Same email again
	resp = postJSON(t, app, "/auth/register", fiber.Map{
		"name":       "Alice Again",
		"email":      "alice@university.edu",
		"password":   "supersecret",
		"role":       "STUDENT",
		"student_id": "S2025999",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"name":       "Mallory",
		"email":      "mallory@gmail.com",
		"password":   "supersecret",
		"role":       "STUDENT",
		"student_id": "S2025002",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestRegisterRoleIdentifiers(t *testing.T) {
	app, _ := setupApp(t)

	// Faculty without an employee id
	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"name":     "Prof. Doe",
		"email":    "doe@university.edu",
		"password": "supersecret",
		"role":     "FACULTY",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Student carrying an employee id
	resp = postJSON(t, app, "/auth/register", fiber.Map{
		"name":        "Confused",
		"email":       "confused@university.edu",
		"password":    "supersecret",
		"role":        "STUDENT",
		"student_id":  "S1",
		"employee_id": "E1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Faculty done right
	resp = postJSON(t, app, "/auth/register", fiber.Map{
		"name":        "Prof. Doe",
		"email":       "doe@university.edu",
		"password":    "supersecret",
		"role":        "FACULTY",
		"employee_id": "E100",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestLoginAndMe(t *testing.T) {
	app, _ := setupApp(t)

	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"name":       "Bob",
		"email":      "bob@university.edu",
		"password":   "correcthorse",
		"role":       "STUDENT",
		"student_id": "S2025003",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "bob@university.edu",
		"password": "wrongbattery",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "bob@university.edu",
		"password": "correcthorse",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(fiber.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, meResp.StatusCode)

	meBody := decodeBody(t, meResp)
	me := meBody["data"].(map[string]interface{})
	assert.Equal(t, "bob@university.edu", me["email"])
}

func TestLoginDeactivatedAccount(t *testing.T) {
	app, db := setupApp(t)

	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"name":       "Carol",
		"email":      "carol@university.edu",
		"password":   "correcthorse",
		"role":       "STUDENT",
		"student_id": "S2025004",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "carol@university.edu").
		Update("is_active", false).Error)

	resp = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "carol@university.edu",
		"password": "correcthorse",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
