package course

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the state of an enrollment's payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Enrollment tracks one student's relationship to one course. The compound
// unique index makes duplicate enrollment a storage-level conflict rather
// than an application-level check.
type Enrollment struct {
	gorm.Model
	StudentID         uint          `json:"student_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID          uint          `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	EnrolledAt        time.Time     `json:"enrolled_at"`
	LastAccessedAt    time.Time     `json:"last_accessed_at"`
	Progress          int           `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	CompletedAt       *time.Time    `json:"completed_at"`              // set once, on the transition to 100
	CertificateIssued bool          `json:"certificate_issued" gorm:"default:false"`
	CertificateSerial *string       `json:"certificate_serial" gorm:"uniqueIndex"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'PENDING'"`
	PaymentAmount     float64       `json:"payment_amount" gorm:"default:0"`
}

// CompletedSection records one completed section of an enrollment. The unique
// index keeps re-completion a no-op at the storage layer.
type CompletedSection struct {
	gorm.Model
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_section;not null"`
	SectionID    uint      `json:"section_id" gorm:"uniqueIndex:idx_enrollment_section;not null"`
	CompletedAt  time.Time `json:"completed_at"`
}
