package ledger

import (
	"time"

	course "learnhub/models/course"
)

// EnrollmentPolicy is the catalog's view of a course at enrollment time.
type EnrollmentPolicy struct {
	CourseID           uint
	InstructorID       uint
	IsPublished        bool
	Price              float64
	MaxStudents        *int       // nil means no cap
	EnrollmentDeadline *time.Time // nil means open-ended
	SectionCount       int
	SectionIDs         []uint
}

// CourseSummary is the minimal course projection used on certificates.
type CourseSummary struct {
	CourseID     uint
	Title        string
	InstructorID uint
}

// CourseCatalog supplies course policy and accepts the course-side counters
// the ledger maintains.
type CourseCatalog interface {
	EnrollmentPolicy(courseID uint) (*EnrollmentPolicy, error)
	CourseSummary(courseID uint) (*CourseSummary, error)
	ActiveEnrollmentCount(courseID uint) (int64, error)
	IncrementEnrollmentCount(courseID uint) error
	AccrueRevenue(courseID uint, amount float64) error
}

// AccountDirectory supplies identity and accepts the user-side records the
// ledger maintains.
type AccountDirectory interface {
	DisplayName(userID uint) (string, error)
	AccrueInstructorEarnings(instructorID uint, amount float64) error
	AddEnrolledCourse(studentID, courseID uint) error
	AddCompletedCourse(studentID, courseID uint, grade string, completedAt time.Time) error
	RemoveEnrolledCourse(studentID, courseID uint) error
}

// EnrollmentStore abstracts the atomic storage operations the ledger's
// invariants depend on. Implementations must back Create with a unique
// constraint on (student, course), AddCompletedSection with a conflict-free
// set-add, RecomputeProgress with a single-statement recompute over the
// stored set, and MarkCompleted/ClaimCertificate with conditional updates.
type EnrollmentStore interface {
	// Create persists a new enrollment and returns ErrAlreadyEnrolled when
	// the (student, course) pair already exists, including when a concurrent
	// create wins the race.
	Create(e *course.Enrollment) error
	Find(studentID, courseID uint) (*course.Enrollment, error)
	FindByID(enrollmentID uint) (*course.Enrollment, error)

	// AddCompletedSection records a section completion and reports whether
	// this call inserted it (false when the section was already completed).
	AddCompletedSection(enrollmentID, sectionID uint, at time.Time) (bool, error)

	// RecomputeProgress re-derives the stored progress percentage from the
	// completed-section set and sectionTotal in one atomic update, so
	// concurrent completions of different sections can never overwrite a
	// newer progress with a stale one. Returns the stored value.
	RecomputeProgress(enrollmentID uint, sectionTotal int, accessedAt time.Time) (int, error)
	Touch(enrollmentID uint, accessedAt time.Time) error

	// MarkCompleted sets completed_at if and only if it is still unset and
	// reports whether this call made the transition.
	MarkCompleted(enrollmentID uint, at time.Time) (bool, error)

	// ClaimCertificate flips certificate_issued false->true and stores the
	// serial in one conditional update; it reports whether this call won.
	ClaimCertificate(enrollmentID uint, serial string) (bool, error)
	CreateCertificate(cert *course.Certificate) error
	FindCertificateBySerial(serial string) (*course.Certificate, error)

	Delete(enrollmentID uint) error
}
