package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission types an assignment can accept. BOTH means either a text or a
// file submission satisfies the assignment, not that both are required.
const (
	SubmissionTypeText = "TEXT"
	SubmissionTypeFile = "FILE"
	SubmissionTypeBoth = "BOTH"
)

// Submission statuses. LATE and RETURNED exist for historical data but no
// code path produces them: there is no resubmission flow, and late submits
// are rejected outright by the availability window.
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
	SubmissionLate      = "LATE"
	SubmissionReturned  = "RETURNED"
)

type Assignment struct {
	gorm.Model
	CourseID       uint      `json:"course_id" gorm:"index;not null"`
	Title          string    `json:"title"`
	Description    string    `json:"description" gorm:"type:text"`
	MaxPoints      float64   `json:"max_points" gorm:"default:100"`
	SubmissionType string    `json:"submission_type" gorm:"default:'BOTH'"` // TEXT, FILE, BOTH
	AvailableFrom  time.Time `json:"available_from"`
	DueDate        time.Time `json:"due_date"`
	IsPublished    bool      `json:"is_published" gorm:"default:false"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedBy      uint      `json:"created_by" gorm:"index"`
	IsDeleted      bool      `json:"-" gorm:"default:false"`

	// Declared submission policy, enforced at submit time.
	AllowedFileTypes string `json:"allowed_file_types"`                    // comma-separated extensions, e.g. ".pdf,.zip"
	MaxFileSize      int64  `json:"max_file_size" gorm:"default:10485760"` // bytes
}

type Submission struct {
	gorm.Model
	AssignmentID   uint       `json:"assignment_id" gorm:"index;not null;uniqueIndex:uq_submission,priority:1"`
	StudentID      uint       `json:"student_id" gorm:"index;not null;uniqueIndex:uq_submission,priority:2"`
	TextSubmission string     `json:"text_submission" gorm:"type:text"`
	FileURL        string     `json:"file_url"`
	FileName       string     `json:"file_name"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	Status         string     `json:"status" gorm:"default:'SUBMITTED'"`
	Grade          *float64   `json:"grade"`
	Feedback       string     `json:"feedback"`
	IsGraded       bool       `json:"is_graded" gorm:"default:false"`
	GradedBy       *uint      `json:"graded_by"`
	GradedAt       *time.Time `json:"graded_at"`
	IsDeleted      bool       `json:"-" gorm:"default:false"`

	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// CanStudentSubmit reports whether a student may submit right now, with a
// caller-facing reason on refusal. Enrollment is checked separately by the
// access policy; this covers the assignment-local conditions.
func (a *Assignment) CanStudentSubmit(db *gorm.DB, studentID uint) (bool, string) {
	if !a.IsPublished {
		return false, "Assignment is not published yet!"
	}
	if !a.IsActive {
		return false, "Assignment is no longer active!"
	}
	if time.Now().Before(a.AvailableFrom) {
		return false, "Assignment is not yet available!"
	}

	var existing Submission
	err := db.Where("assignment_id = ? AND student_id = ? AND is_deleted = ?", a.ID, studentID, false).
		First(&existing).Error
	if err == nil {
		return false, "You have already submitted this assignment!"
	}

	return true, ""
}
