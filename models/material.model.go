package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseMaterial is an uploaded document attached to a course. Materials
// are append-only; hiding one flips IsVisible rather than deleting it.
type CourseMaterial struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"`
	FileName    string `json:"file_name"`
	UploadedBy  uint   `json:"uploaded_by" gorm:"index"`
	IsVisible   bool   `json:"is_visible" gorm:"default:true"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

// ScheduleItem is a recurring meeting slot on a course schedule.
type ScheduleItem struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	DayOfWeek string `json:"day_of_week"` // MONDAY..SUNDAY
	StartTime string `json:"start_time"`  // HH:MM
	EndTime   string `json:"end_time"`    // HH:MM
	Location  string `json:"location"`
	Type      string `json:"type" gorm:"default:'LECTURE'"` // LECTURE, LAB, OFFICE_HOURS
	IsVisible bool   `json:"is_visible" gorm:"default:true"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}

// Announcement is a course-wide notice posted by the faculty or a TA.
type Announcement struct {
	gorm.Model
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index"`
	Title     string    `json:"title"`
	Content   string    `json:"content" gorm:"type:text"`
	PostedAt  time.Time `json:"posted_at"`
	IsVisible bool      `json:"is_visible" gorm:"default:true"`
	IsDeleted bool      `json:"-" gorm:"default:false"`
}
