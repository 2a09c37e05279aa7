package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an immutable proof-of-completion artifact. It is stored
// independently of the enrollment so that it keeps resolving after an
// administrative enrollment removal.
type Certificate struct {
	gorm.Model
	Serial      string    `json:"serial" gorm:"unique;not null"`
	StudentID   uint      `json:"student_id" gorm:"index;not null"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	CompletedAt time.Time `json:"completed_at"`
	IssuedAt    time.Time `json:"issued_at"`
}
