package models

import "gorm.io/gorm"

type Forum struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	AuthorID   uint   `json:"author_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Content    string `json:"content" gorm:"type:text"`
	IsPinned   bool   `json:"is_pinned" gorm:"default:false"`
	IsResolved bool   `json:"is_resolved" gorm:"default:false"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`

	Author  User         `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Replies []ForumReply `json:"replies,omitempty" gorm:"foreignKey:ForumID"`
}

// ForumReply records IsInstructorReply as a snapshot of the author's role
// at reply time. A TA promoted to faculty later does not retroactively
// change old replies.
type ForumReply struct {
	gorm.Model
	ForumID           uint   `json:"forum_id" gorm:"index;not null"`
	AuthorID          uint   `json:"author_id" gorm:"index;not null"`
	Content           string `json:"content" gorm:"type:text"`
	IsInstructorReply bool   `json:"is_instructor_reply" gorm:"default:false"`
	IsDeleted         bool   `json:"-" gorm:"default:false"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
