package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types
const (
	NotificationAssignmentNew    = "ASSIGNMENT_NEW"
	NotificationSubmissionNew    = "SUBMISSION_NEW"
	NotificationSubmissionGraded = "SUBMISSION_GRADED"
	NotificationEnrollmentNew    = "ENROLLMENT_NEW"
	NotificationAnnouncement     = "ANNOUNCEMENT"
	NotificationForumReply       = "FORUM_REPLY"
	NotificationSystem           = "SYSTEM"
)

// Notification priorities
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

// Notification is a directed recipient<-sender record created as a side
// effect of domain mutations. It never mutates the entity it points at.
type Notification struct {
	gorm.Model
	RecipientID uint       `json:"recipient_id" gorm:"index;not null"`
	SenderID    uint       `json:"sender_id" gorm:"index"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Priority    string     `json:"priority" gorm:"default:'NORMAL'"`
	RefType     string     `json:"ref_type"` // COURSE, ASSIGNMENT, SUBMISSION, FORUM, VIDEO
	RefID       uint       `json:"ref_id"`
	IsRead      bool       `json:"is_read" gorm:"default:false"`
	ReadAt      *time.Time `json:"read_at"`
	IsDeleted   bool       `json:"-" gorm:"default:false"`
}
