package course

import (
	"time"

	"gorm.io/gorm"
)

// Course represents a published or draft course in the catalog
type Course struct {
	gorm.Model
	Title              string     `json:"title"`
	Description        string     `json:"description" gorm:"type:text"`
	InstructorID       uint       `json:"instructor_id" gorm:"index;not null"`
	Price              float64    `json:"price" gorm:"default:0"`
	MaxStudents        *int       `json:"max_students"`        // nil means no enrollment cap
	EnrollmentDeadline *time.Time `json:"enrollment_deadline"` // nil means open-ended
	ThumbnailURL       string     `json:"thumbnail_url"`
	IsPublished        bool       `json:"is_published" gorm:"default:false"`
	EnrollmentCount    int64      `json:"enrollment_count" gorm:"default:0"`
	PlatformRevenue    float64    `json:"platform_revenue" gorm:"default:0"` // platform share accrued from paid enrollments
	IsDeleted          bool       `gorm:"default:false" json:"-"`
}
