package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a portal account can hold. Role is fixed at registration.
const (
	RoleStudent = "STUDENT"
	RoleFaculty = "FACULTY"
	RoleTA      = "TA"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"default:''"`
	Email        string `json:"email" gorm:"unique;not null"`
	Password     string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, FACULTY, TA, ADMIN
	ProfileImage string `json:"profile_image" gorm:"default:''"`

	// Exactly one of the two is set, depending on role.
	StudentID  string `json:"student_id" gorm:"index"`
	EmployeeID string `json:"employee_id" gorm:"index"`

	Department string     `json:"department"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	LastLogin  *time.Time `json:"last_login"`
	IsDeleted  bool       `json:"-" gorm:"default:false"`
}

// IsInstructor reports whether the user's role carries teaching authority.
// Used when snapshotting forum reply flags.
func (u *User) IsInstructor() bool {
	return u.Role == RoleFaculty || u.Role == RoleTA || u.Role == RoleAdmin
}
