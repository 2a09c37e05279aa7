// Package ledger owns the enrollment lifecycle: enrollment creation with
// capacity/deadline/payment gating, section-completion progress tracking,
// completion detection, certificate issuance and public verification. It is
// a library-level component; HTTP handlers, auth and validation live with
// the callers.
package ledger

import (
	"errors"
	"math"
	"time"

	course "learnhub/models/course"
)

// InstructorShareRate is the instructor's fixed share of a paid enrollment;
// the platform retains the remainder.
const InstructorShareRate = 0.70

// DefaultGrade is the placeholder grade recorded on course completion.
const DefaultGrade = "PASS"

// Actor identifies who is performing an administrative operation.
type Actor struct {
	ID   uint
	Role string
}

// CompletionResult is the outcome of a CompleteSection call.
type CompletionResult struct {
	Progress          int    `json:"progress"`
	IsCourseCompleted bool   `json:"is_course_completed"`
	CertificateSerial string `json:"certificate_serial,omitempty"`
}

// CertificateView is the public projection a certificate serial resolves to.
// Nothing beyond it leaks to unauthenticated verification.
type CertificateView struct {
	Serial         string    `json:"serial"`
	StudentName    string    `json:"student_name"`
	CourseTitle    string    `json:"course_title"`
	InstructorName string    `json:"instructor_name"`
	CompletedAt    time.Time `json:"completed_at"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Service is the enrollment ledger.
type Service struct {
	store    EnrollmentStore
	catalog  CourseCatalog
	accounts AccountDirectory
	events   EventSink
	now      func() time.Time
}

func NewService(store EnrollmentStore, catalog CourseCatalog, accounts AccountDirectory, events EventSink) *Service {
	if events == nil {
		events = NopSink{}
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		accounts: accounts,
		events:   events,
		now:      time.Now,
	}
}

// Enroll creates the enrollment for (studentID, courseID), applies the
// revenue split for paid courses and records the course-membership side
// effects. paymentConfirmed is the caller's pre-resolved payment outcome for
// paid courses; the ledger never talks to a payment provider.
//
// The split, counters and membership record ride behind the enrollment
// create without a shared transaction. If one of them fails the enrollment
// stays persisted, the caller gets the error, and a retry reports
// ErrAlreadyEnrolled; reconciling the missed side effect is an operator
// action, not a ledger retry.
func (s *Service) Enroll(studentID, courseID uint, paymentConfirmed bool) (*course.Enrollment, error) {
	policy, err := s.catalog.EnrollmentPolicy(courseID)
	if err != nil {
		return nil, err
	}
	if !policy.IsPublished {
		return nil, ErrCourseUnavailable
	}

	if _, err := s.store.Find(studentID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, ErrEnrollmentNotFound) {
		return nil, err
	}

	now := s.now()
	// Deadline gates before capacity: a closed course reports DeadlinePassed
	// even when it is also full.
	if policy.EnrollmentDeadline != nil && now.After(*policy.EnrollmentDeadline) {
		return nil, ErrDeadlinePassed
	}
	if policy.MaxStudents != nil {
		count, err := s.catalog.ActiveEnrollmentCount(courseID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*policy.MaxStudents) {
			return nil, ErrCapacityExceeded
		}
	}

	paymentStatus := course.PaymentCompleted
	if policy.Price > 0 && !paymentConfirmed {
		paymentStatus = course.PaymentPending
	}

	enrollment := &course.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrolledAt:     now,
		LastAccessedAt: now,
		Progress:       0,
		PaymentStatus:  paymentStatus,
		PaymentAmount:  policy.Price,
	}
	// The unique (student, course) index is the real duplicate guard; a
	// losing racer surfaces here as ErrAlreadyEnrolled.
	if err := s.store.Create(enrollment); err != nil {
		return nil, err
	}

	// The split rides on the creation above: the duplicate guard already
	// rejected every path that could apply it twice.
	if policy.Price > 0 {
		instructorShare := roundMoney(policy.Price * InstructorShareRate)
		if err := s.accounts.AccrueInstructorEarnings(policy.InstructorID, instructorShare); err != nil {
			return nil, err
		}
		if err := s.catalog.AccrueRevenue(courseID, roundMoney(policy.Price-instructorShare)); err != nil {
			return nil, err
		}
	}
	if err := s.catalog.IncrementEnrollmentCount(courseID); err != nil {
		return nil, err
	}
	if err := s.accounts.AddEnrolledCourse(studentID, courseID); err != nil {
		return nil, err
	}

	s.events.Publish(EnrollmentCreated{StudentID: studentID, CourseID: courseID})
	return enrollment, nil
}

// CompleteSection marks a section complete for the student's enrollment and
// recomputes progress against the course's current section count. Completing
// an already-completed section is a no-op for the set but still refreshes
// last access.
func (s *Service) CompleteSection(studentID, courseID, sectionID uint) (*CompletionResult, error) {
	policy, err := s.catalog.EnrollmentPolicy(courseID)
	if err != nil {
		return nil, err
	}
	if !containsSection(policy.SectionIDs, sectionID) {
		return nil, ErrSectionNotFound
	}

	enrollment, err := s.store.Find(studentID, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	added, err := s.store.AddCompletedSection(enrollment.ID, sectionID, now)
	if err != nil {
		return nil, err
	}
	if !added {
		if err := s.store.Touch(enrollment.ID, now); err != nil {
			return nil, err
		}
		s.events.Publish(SectionCompleted{StudentID: studentID, CourseID: courseID, SectionID: sectionID, Progress: enrollment.Progress})
		return &CompletionResult{Progress: enrollment.Progress}, nil
	}

	// Progress is re-derived from the completed-section set inside the store
	// in one atomic step; a read-count-write sequence here could let a stale
	// lower value land after a concurrent completion already hit 100.
	progress, err := s.store.RecomputeProgress(enrollment.ID, policy.SectionCount, now)
	if err != nil {
		return nil, err
	}

	s.events.Publish(SectionCompleted{StudentID: studentID, CourseID: courseID, SectionID: sectionID, Progress: progress})

	result := &CompletionResult{Progress: progress}
	if progress >= 100 {
		transitioned, err := s.store.MarkCompleted(enrollment.ID, now)
		if err != nil {
			return nil, err
		}
		if transitioned {
			result.IsCourseCompleted = true
			if err := s.accounts.AddCompletedCourse(studentID, courseID, DefaultGrade, now); err != nil {
				return nil, err
			}
			s.events.Publish(CourseCompleted{StudentID: studentID, CourseID: courseID})

			fresh, err := s.store.FindByID(enrollment.ID)
			if err != nil {
				return nil, err
			}
			serial, err := s.issueCertificate(fresh)
			if err != nil {
				return nil, err
			}
			result.CertificateSerial = serial
		}
	}
	return result, nil
}

// IssueCertificate mints the certificate for a completed enrollment. It is
// idempotent: once a serial exists every call returns it unchanged.
func (s *Service) IssueCertificate(studentID, courseID uint) (string, error) {
	enrollment, err := s.store.Find(studentID, courseID)
	if err != nil {
		return "", err
	}
	return s.issueCertificate(enrollment)
}

func (s *Service) issueCertificate(enrollment *course.Enrollment) (string, error) {
	if enrollment.CertificateIssued && enrollment.CertificateSerial != nil {
		return *enrollment.CertificateSerial, nil
	}
	if enrollment.Progress < 100 {
		return "", ErrCourseNotCompleted
	}

	now := s.now()
	serial := NewCertificateSerial(now)
	claimed, err := s.store.ClaimCertificate(enrollment.ID, serial)
	if err != nil {
		return "", err
	}
	if !claimed {
		// Another issuer won the compare-and-set; hand back its serial.
		current, err := s.store.FindByID(enrollment.ID)
		if err != nil {
			return "", err
		}
		if current.CertificateSerial == nil {
			return "", ErrCertificateNotFound
		}
		return *current.CertificateSerial, nil
	}

	completedAt := now
	if enrollment.CompletedAt != nil {
		completedAt = *enrollment.CompletedAt
	}
	cert := &course.Certificate{
		Serial:      serial,
		StudentID:   enrollment.StudentID,
		CourseID:    enrollment.CourseID,
		CompletedAt: completedAt,
		IssuedAt:    now,
	}
	if err := s.store.CreateCertificate(cert); err != nil {
		return "", err
	}

	s.events.Publish(CertificateIssued{StudentID: enrollment.StudentID, CourseID: enrollment.CourseID, Serial: serial})
	return serial, nil
}

// VerifyCertificate resolves a serial to its public projection. It works for
// anyone holding the serial and keeps working after the enrollment itself is
// removed.
func (s *Service) VerifyCertificate(serial string) (*CertificateView, error) {
	cert, err := s.store.FindCertificateBySerial(serial)
	if err != nil {
		return nil, err
	}
	summary, err := s.catalog.CourseSummary(cert.CourseID)
	if err != nil {
		return nil, err
	}
	// A certificate pointing at a removed account can no longer be attested;
	// it verifies as not found rather than surfacing the dangling reference.
	studentName, err := s.accounts.DisplayName(cert.StudentID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	instructorName, err := s.accounts.DisplayName(summary.InstructorID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &CertificateView{
		Serial:         cert.Serial,
		StudentName:    studentName,
		CourseTitle:    summary.Title,
		InstructorName: instructorName,
		CompletedAt:    cert.CompletedAt,
		IssuedAt:       cert.IssuedAt,
	}, nil
}

// RemoveEnrollment deletes an enrollment and reverses the student's
// course-membership record. Admin only. An already-issued certificate is an
// immutable historical artifact and deliberately survives the removal.
func (s *Service) RemoveEnrollment(enrollmentID uint, actor Actor) error {
	if actor.Role != "ADMIN" {
		return ErrUnauthorized
	}
	enrollment, err := s.store.FindByID(enrollmentID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(enrollment.ID); err != nil {
		return err
	}
	return s.accounts.RemoveEnrolledCourse(enrollment.StudentID, enrollment.CourseID)
}

func containsSection(ids []uint, sectionID uint) bool {
	for _, id := range ids {
		if id == sectionID {
			return true
		}
	}
	return false
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
