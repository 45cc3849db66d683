package authValidator

import (
	"regexp"
	"strings"

	"fportal/config"
	"fportal/middleware"
	"fportal/models"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the validated registration payload.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	StudentID  string `json:"student_id"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
}

// LoginRequest is the validated login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailDomainAllowed checks the address against the institutional domain
// suffix allow-list.
func EmailDomainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range config.AppConfig.AllowedEmailDomains {
		allowed = strings.ToLower(allowed)
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}
	return false
}

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if !emailRegex.MatchString(reqData.Email) {
			errors["email"] = "Email is not valid!"
		} else if !EmailDomainAllowed(reqData.Email) {
			errors["email"] = "Email must belong to an institutional domain!"
		}

		if len(reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))
		switch reqData.Role {
		case models.RoleStudent:
			if strings.TrimSpace(reqData.StudentID) == "" {
				errors["student_id"] = "Student ID is required for student accounts!"
			}
			if strings.TrimSpace(reqData.EmployeeID) != "" {
				errors["employee_id"] = "Employee ID is not allowed on student accounts!"
			}
		case models.RoleFaculty, models.RoleTA, models.RoleAdmin:
			if strings.TrimSpace(reqData.EmployeeID) == "" {
				errors["employee_id"] = "Employee ID is required for staff accounts!"
			}
			if strings.TrimSpace(reqData.StudentID) != "" {
				errors["student_id"] = "Student ID is not allowed on staff accounts!"
			}
		default:
			errors["role"] = "Role must be one of STUDENT, FACULTY, TA, ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
