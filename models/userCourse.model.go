package models

import (
	"time"

	"gorm.io/gorm"
)

// EnrolledCourse is a user's course-membership record, maintained alongside
// the enrollment itself. The unique index keeps repeated membership writes
// commutative.
type EnrolledCourse struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_user_enrolled_course;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_user_enrolled_course;not null"`
}

// CompletedCourse records a finished course on the user's profile.
type CompletedCourse struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_user_completed_course;not null"`
	CourseID    uint      `json:"course_id" gorm:"uniqueIndex:idx_user_completed_course;not null"`
	Grade       string    `json:"grade" gorm:"default:'PASS'"`
	CompletedAt time.Time `json:"completed_at"`
}
