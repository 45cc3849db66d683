package models

import (
	"time"

	"gorm.io/gorm"
)

type VideoLecture struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration" gorm:"default:0"` // seconds
	UploadedBy  uint   `json:"uploaded_by" gorm:"index"`
	IsVisible   bool   `json:"is_visible" gorm:"default:true"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

type VideoComment struct {
	gorm.Model
	VideoID   uint   `json:"video_id" gorm:"index;not null"`
	AuthorID  uint   `json:"author_id" gorm:"index;not null"`
	Content   string `json:"content" gorm:"type:text"`
	IsDeleted bool   `json:"-" gorm:"default:false"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// VideoLike has toggle semantics: liking twice removes the like. One row
// per (video, user); IsDeleted doubles as the off state.
type VideoLike struct {
	gorm.Model
	VideoID   uint `json:"video_id" gorm:"index;not null;uniqueIndex:uq_video_like,priority:1"`
	UserID    uint `json:"user_id" gorm:"index;not null;uniqueIndex:uq_video_like,priority:2"`
	IsDeleted bool `json:"-" gorm:"default:false"`
}

// VideoCompletion is upserted per (video, student). WatchTime only ever
// grows: updates keep the max of the stored and reported values.
type VideoCompletion struct {
	gorm.Model
	VideoID     uint       `json:"video_id" gorm:"index;not null;uniqueIndex:uq_video_completion,priority:1"`
	StudentID   uint       `json:"student_id" gorm:"index;not null;uniqueIndex:uq_video_completion,priority:2"`
	WatchTime   int        `json:"watch_time" gorm:"default:0"` // seconds
	Completed   bool       `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
}
