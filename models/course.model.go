package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SemesterFall   = "FALL"
	SemesterSpring = "SPRING"
	SemesterSummer = "SUMMER"
)

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentDropped   = "DROPPED"
	EnrollmentWithdrawn = "WITHDRAWN"
)

// Course is the aggregate root for a taught course. FacultyID and the
// CourseTA/Enrollment rows are the authoritative relationship records;
// CourseRef rows mirror them on the user side.
type Course struct {
	gorm.Model
	Name        string `json:"name"`
	Code        string `json:"code" gorm:"index"` // stored uppercase, unique among active courses
	Description string `json:"description"`
	Semester    string `json:"semester"` // FALL, SPRING, SUMMER
	Year        int    `json:"year"`
	Credits     int    `json:"credits"`
	FacultyID   uint   `json:"faculty_id" gorm:"index;not null"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`

	// Best-effort cached counters, refreshed on save. Never authoritative;
	// recompute from the underlying rows when correctness matters.
	StatsEnrollmentCount int `json:"stats_enrollment_count" gorm:"default:0"`
	StatsMaterialCount   int `json:"stats_material_count" gorm:"default:0"`
	StatsVideoCount      int `json:"stats_video_count" gorm:"default:0"`

	Faculty User `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`
}

// CourseTA records a teaching-assistant assignment on a course.
type CourseTA struct {
	gorm.Model
	CourseID  uint `json:"course_id" gorm:"index;not null;uniqueIndex:uq_course_ta,priority:1"`
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:uq_course_ta,priority:2"`
	IsDeleted bool `json:"-" gorm:"default:false"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Enrollment tracks a student's enrollment in a course
type Enrollment struct {
	gorm.Model
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	StudentID  uint      `json:"student_id" gorm:"index;not null"`
	Status     string    `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, COMPLETED, DROPPED, WITHDRAWN
	EnrolledAt time.Time `json:"enrolled_at"`
	Grade      string    `json:"grade"`
	IsDeleted  bool      `json:"-" gorm:"default:false"`

	Student User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// Mirror roles stored on the user side of the course relationship.
const (
	RefTeaching  = "TEACHING"
	RefAssisting = "ASSISTING"
	RefEnrolled  = "ENROLLED"
)

// CourseRef is the user-side back-reference for a course relationship
// ("my courses"). Written at every call site that mutates a relationship
// and regenerated additively by the reconciler. The composite unique index
// makes mirror writes an atomic upsert, so repeated reconciliation cannot
// produce duplicates.
type CourseRef struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"index;not null;uniqueIndex:uq_course_ref,priority:1"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:uq_course_ref,priority:2"`
	Role     string `json:"role" gorm:"not null;uniqueIndex:uq_course_ref,priority:3"` // TEACHING, ASSISTING, ENROLLED

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// EnrollmentCount recomputes the number of active enrollments from the
// enrollment rows.
func (c *Course) EnrollmentCount(db *gorm.DB) int64 {
	var n int64
	db.Model(&Enrollment{}).
		Where("course_id = ? AND status = ? AND is_deleted = ?", c.ID, EnrollmentActive, false).
		Count(&n)
	return n
}

// RefreshStats recomputes the cached counters from the live rows and saves
// them. Best effort: callers ignore the error.
func (c *Course) RefreshStats(db *gorm.DB) error {
	var materials, videos int64
	db.Model(&CourseMaterial{}).Where("course_id = ? AND is_deleted = ?", c.ID, false).Count(&materials)
	db.Model(&VideoLecture{}).Where("course_id = ? AND is_deleted = ?", c.ID, false).Count(&videos)

	c.StatsEnrollmentCount = int(c.EnrollmentCount(db))
	c.StatsMaterialCount = int(materials)
	c.StatsVideoCount = int(videos)

	return db.Model(&Course{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"stats_enrollment_count": c.StatsEnrollmentCount,
		"stats_material_count":   c.StatsMaterialCount,
		"stats_video_count":      c.StatsVideoCount,
	}).Error
}

// ValidSemester reports whether s is one of the accepted semester values.
func ValidSemester(s string) bool {
	return s == SemesterFall || s == SemesterSpring || s == SemesterSummer
}
