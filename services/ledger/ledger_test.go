package ledger_test

import (
	"sync"
	"testing"
	"time"

	course "learnhub/models/course"
	"learnhub/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	studentAlice  = uint(1)
	studentBella  = uint(2)
	instructorBen = uint(7)
	freeCourse    = uint(10)
	paidCourse    = uint(20)
)

type world struct {
	store    *fakeStore
	catalog  *fakeCatalog
	accounts *fakeAccounts
	sink     *captureSink
	svc      *ledger.Service
}

func newWorld() *world {
	w := &world{
		store:    newFakeStore(),
		catalog:  newFakeCatalog(),
		accounts: newFakeAccounts(),
		sink:     &captureSink{},
	}
	w.svc = ledger.NewService(w.store, w.catalog, w.accounts, w.sink)

	w.accounts.addUser(studentAlice, "Alice Stone")
	w.accounts.addUser(studentBella, "Bella Reyes")
	w.accounts.addUser(instructorBen, "Ben Ortiz")

	w.catalog.addCourse(&ledger.EnrollmentPolicy{
		CourseID:     freeCourse,
		InstructorID: instructorBen,
		IsPublished:  true,
		Price:        0,
		SectionIDs:   []uint{101, 102, 103, 104},
		SectionCount: 4,
	}, "Intro to Go")

	w.catalog.addCourse(&ledger.EnrollmentPolicy{
		CourseID:     paidCourse,
		InstructorID: instructorBen,
		IsPublished:  true,
		Price:        100,
		SectionIDs:   []uint{201, 202},
		SectionCount: 2,
	}, "Advanced Go")

	return w
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestEnrollFreeCourse(t *testing.T) {
	w := newWorld()

	enrollment, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	assert.Equal(t, 0, enrollment.Progress)
	assert.Equal(t, course.PaymentCompleted, enrollment.PaymentStatus)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.False(t, enrollment.CertificateIssued)
	assert.True(t, w.accounts.isEnrolled(studentAlice, freeCourse))
	assert.Equal(t, float64(0), w.accounts.earningsOf(instructorBen))
	assert.Equal(t, 1, w.sink.count("enrollment.created"))

	count, _ := w.catalog.ActiveEnrollmentCount(freeCourse)
	assert.Equal(t, int64(1), count)
}

func TestEnrollPaidCourseAppliesRevenueSplitOnce(t *testing.T) {
	w := newWorld()

	enrollment, err := w.svc.Enroll(studentBella, paidCourse, true)
	require.NoError(t, err)
	assert.Equal(t, course.PaymentCompleted, enrollment.PaymentStatus)
	assert.Equal(t, float64(100), enrollment.PaymentAmount)

	// Instructor gets exactly 70%, the platform keeps the rest.
	assert.Equal(t, float64(70), w.accounts.earningsOf(instructorBen))
	assert.Equal(t, float64(30), w.catalog.revenue[paidCourse])

	// A rejected duplicate must not move money again.
	_, err = w.svc.Enroll(studentBella, paidCourse, true)
	assert.ErrorIs(t, err, ledger.ErrAlreadyEnrolled)
	assert.Equal(t, float64(70), w.accounts.earningsOf(instructorBen))
	assert.Equal(t, float64(30), w.catalog.revenue[paidCourse])
}

func TestEnrollPaidCourseUnconfirmedPaymentIsPending(t *testing.T) {
	w := newWorld()

	enrollment, err := w.svc.Enroll(studentAlice, paidCourse, false)
	require.NoError(t, err)
	assert.Equal(t, course.PaymentPending, enrollment.PaymentStatus)
}

func TestEnrollGuards(t *testing.T) {
	t.Run("course not found", func(t *testing.T) {
		w := newWorld()
		_, err := w.svc.Enroll(studentAlice, 999, false)
		assert.ErrorIs(t, err, ledger.ErrCourseNotFound)
	})

	t.Run("unpublished course", func(t *testing.T) {
		w := newWorld()
		w.catalog.addCourse(&ledger.EnrollmentPolicy{
			CourseID:     30,
			InstructorID: instructorBen,
			IsPublished:  false,
			SectionIDs:   []uint{301},
			SectionCount: 1,
		}, "Draft Course")

		_, err := w.svc.Enroll(studentAlice, 30, false)
		assert.ErrorIs(t, err, ledger.ErrCourseUnavailable)
	})

	t.Run("capacity reached", func(t *testing.T) {
		w := newWorld()
		w.catalog.addCourse(&ledger.EnrollmentPolicy{
			CourseID:     31,
			InstructorID: instructorBen,
			IsPublished:  true,
			MaxStudents:  intPtr(1),
			SectionIDs:   []uint{311},
			SectionCount: 1,
		}, "Tiny Cohort")

		_, err := w.svc.Enroll(studentAlice, 31, false)
		require.NoError(t, err)

		_, err = w.svc.Enroll(studentBella, 31, false)
		assert.ErrorIs(t, err, ledger.ErrCapacityExceeded)
	})

	t.Run("deadline passed wins over capacity", func(t *testing.T) {
		w := newWorld()
		w.catalog.addCourse(&ledger.EnrollmentPolicy{
			CourseID:           32,
			InstructorID:       instructorBen,
			IsPublished:        true,
			MaxStudents:        intPtr(0),
			EnrollmentDeadline: timePtr(time.Now().Add(-time.Hour)),
			SectionIDs:         []uint{321},
			SectionCount:       1,
		}, "Closed Cohort")

		_, err := w.svc.Enroll(studentAlice, 32, false)
		assert.ErrorIs(t, err, ledger.ErrDeadlinePassed)
	})
}

func TestEnrollConcurrentDuplicates(t *testing.T) {
	w := newWorld()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.svc.Enroll(studentAlice, paidCourse, true)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ledger.ErrAlreadyEnrolled)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, w.store.enrollmentCount())
	assert.Equal(t, float64(70), w.accounts.earningsOf(instructorBen))
}

func TestCompleteSectionProgress(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	result, err := w.svc.CompleteSection(studentAlice, freeCourse, 101)
	require.NoError(t, err)
	assert.Equal(t, 25, result.Progress)
	assert.False(t, result.IsCourseCompleted)

	result, err = w.svc.CompleteSection(studentAlice, freeCourse, 102)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Progress)

	enrollment, _ := w.store.Find(studentAlice, freeCourse)
	assert.False(t, enrollment.CertificateIssued)
	assert.Nil(t, enrollment.CompletedAt)

	result, err = w.svc.CompleteSection(studentAlice, freeCourse, 103)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Progress)

	result, err = w.svc.CompleteSection(studentAlice, freeCourse, 104)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Progress)
	assert.True(t, result.IsCourseCompleted)
	assert.NotEmpty(t, result.CertificateSerial)

	enrollment, _ = w.store.Find(studentAlice, freeCourse)
	assert.True(t, enrollment.CertificateIssued)
	require.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, result.CertificateSerial, *enrollment.CertificateSerial)

	assert.Equal(t, 4, w.sink.count("section.completed"))
	assert.Equal(t, 1, w.sink.count("course.completed"))
	assert.Equal(t, 1, w.sink.count("certificate.issued"))
}

func TestCompleteSectionIdempotent(t *testing.T) {
	w := newWorld()
	enrollment, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	first, err := w.svc.CompleteSection(studentAlice, freeCourse, 101)
	require.NoError(t, err)

	second, err := w.svc.CompleteSection(studentAlice, freeCourse, 101)
	require.NoError(t, err)

	assert.Equal(t, first.Progress, second.Progress)
	count, _ := w.store.CountCompletedSections(enrollment.ID)
	assert.Equal(t, int64(1), count)
	// The no-op still counts as access, and still emits the event.
	assert.Equal(t, 2, w.sink.count("section.completed"))
}

func TestCompleteSectionAfterCompletionKeepsCertificate(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	for _, sectionID := range []uint{101, 102, 103, 104} {
		_, err := w.svc.CompleteSection(studentAlice, freeCourse, sectionID)
		require.NoError(t, err)
	}

	enrollment, _ := w.store.Find(studentAlice, freeCourse)
	serial := *enrollment.CertificateSerial
	completedAt := *enrollment.CompletedAt

	// Re-completing the last section must not re-complete the course.
	result, err := w.svc.CompleteSection(studentAlice, freeCourse, 104)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Progress)
	assert.False(t, result.IsCourseCompleted)

	enrollment, _ = w.store.Find(studentAlice, freeCourse)
	assert.Equal(t, serial, *enrollment.CertificateSerial)
	assert.Equal(t, completedAt, *enrollment.CompletedAt)
	assert.Equal(t, 1, w.store.certificateCount())
	assert.Equal(t, 1, w.sink.count("course.completed"))
	assert.Equal(t, 1, w.sink.count("certificate.issued"))
}

func TestCompleteSectionRounding(t *testing.T) {
	w := newWorld()
	w.catalog.addCourse(&ledger.EnrollmentPolicy{
		CourseID:     40,
		InstructorID: instructorBen,
		IsPublished:  true,
		SectionIDs:   []uint{401, 402, 403},
		SectionCount: 3,
	}, "Thirds")

	_, err := w.svc.Enroll(studentAlice, 40, false)
	require.NoError(t, err)

	result, err := w.svc.CompleteSection(studentAlice, 40, 401)
	require.NoError(t, err)
	assert.Equal(t, 33, result.Progress)

	result, err = w.svc.CompleteSection(studentAlice, 40, 402)
	require.NoError(t, err)
	assert.Equal(t, 67, result.Progress)
}

func TestCompleteSectionUsesCurrentSectionCount(t *testing.T) {
	w := newWorld()
	w.catalog.addCourse(&ledger.EnrollmentPolicy{
		CourseID:     41,
		InstructorID: instructorBen,
		IsPublished:  true,
		SectionIDs:   []uint{411, 412},
		SectionCount: 2,
	}, "Growing Course")

	_, err := w.svc.Enroll(studentAlice, 41, false)
	require.NoError(t, err)

	result, err := w.svc.CompleteSection(studentAlice, 41, 411)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Progress)

	// The instructor doubles the course; the denominator moves with it.
	w.catalog.setSections(41, []uint{411, 412, 413, 414})

	result, err = w.svc.CompleteSection(studentAlice, 41, 412)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Progress)
}

func TestCompleteSectionConcurrentDistinctSections(t *testing.T) {
	w := newWorld()
	enrollment, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	// Every section completed at once: no completion may be lost and no
	// slower writer may drag the stored progress back below 100 after the
	// completion transition.
	sections := []uint{101, 102, 103, 104}
	var wg sync.WaitGroup
	errs := make([]error, len(sections))
	for i, sectionID := range sections {
		wg.Add(1)
		go func(i int, sectionID uint) {
			defer wg.Done()
			_, errs[i] = w.svc.CompleteSection(studentAlice, freeCourse, sectionID)
		}(i, sectionID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := w.store.FindByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.True(t, stored.CertificateIssued)
	require.NotNil(t, stored.CompletedAt)

	count, err := w.store.CountCompletedSections(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 1, w.store.certificateCount())
	assert.Equal(t, 1, w.sink.count("course.completed"))
}

func TestCompleteSectionErrors(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	_, err = w.svc.CompleteSection(studentAlice, freeCourse, 999)
	assert.ErrorIs(t, err, ledger.ErrSectionNotFound)

	_, err = w.svc.CompleteSection(studentBella, freeCourse, 101)
	assert.ErrorIs(t, err, ledger.ErrEnrollmentNotFound)
}

func TestIssueCertificateRequiresCompletion(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	_, err = w.svc.IssueCertificate(studentAlice, freeCourse)
	assert.ErrorIs(t, err, ledger.ErrCourseNotCompleted)
}

func TestIssueCertificateIdempotent(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)
	for _, sectionID := range []uint{101, 102, 103, 104} {
		_, err := w.svc.CompleteSection(studentAlice, freeCourse, sectionID)
		require.NoError(t, err)
	}

	first, err := w.svc.IssueCertificate(studentAlice, freeCourse)
	require.NoError(t, err)

	second, err := w.svc.IssueCertificate(studentAlice, freeCourse)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, w.store.certificateCount())
	assert.Equal(t, 1, w.sink.count("certificate.issued"))
}

func TestIssueCertificateConcurrent(t *testing.T) {
	w := newWorld()

	// Build a completed enrollment that has not been issued yet.
	enrollment := &course.Enrollment{
		StudentID:      studentAlice,
		CourseID:       freeCourse,
		EnrolledAt:     time.Now(),
		LastAccessedAt: time.Now(),
	}
	require.NoError(t, w.store.Create(enrollment))
	require.NoError(t, w.store.saveProgress(enrollment.ID, 100))
	_, err := w.store.MarkCompleted(enrollment.ID, time.Now())
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	serials := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			serials[i], errs[i] = w.svc.IssueCertificate(studentAlice, freeCourse)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, serials[0], serials[i])
	}
	assert.Equal(t, 1, w.store.certificateCount())
	assert.Equal(t, 1, w.sink.count("certificate.issued"))
}

func TestVerifyCertificate(t *testing.T) {
	w := newWorld()
	_, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)
	var serial string
	for _, sectionID := range []uint{101, 102, 103, 104} {
		result, err := w.svc.CompleteSection(studentAlice, freeCourse, sectionID)
		require.NoError(t, err)
		if result.CertificateSerial != "" {
			serial = result.CertificateSerial
		}
	}
	require.NotEmpty(t, serial)

	view, err := w.svc.VerifyCertificate(serial)
	require.NoError(t, err)
	assert.Equal(t, serial, view.Serial)
	assert.Equal(t, "Alice Stone", view.StudentName)
	assert.Equal(t, "Intro to Go", view.CourseTitle)
	assert.Equal(t, "Ben Ortiz", view.InstructorName)
	assert.False(t, view.IssuedAt.IsZero())
	assert.False(t, view.CompletedAt.IsZero())

	_, err = w.svc.VerifyCertificate("CERT-0-NOPE00")
	assert.ErrorIs(t, err, ledger.ErrCertificateNotFound)

	// A certificate whose holder's account is gone verifies as not found,
	// the same outcome as an unknown serial.
	w.accounts.removeUser(studentAlice)
	_, err = w.svc.VerifyCertificate(serial)
	assert.ErrorIs(t, err, ledger.ErrCertificateNotFound)
}

func TestRemoveEnrollment(t *testing.T) {
	w := newWorld()
	enrollment, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	err = w.svc.RemoveEnrollment(enrollment.ID, ledger.Actor{ID: studentAlice, Role: "STUDENT"})
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	err = w.svc.RemoveEnrollment(enrollment.ID, ledger.Actor{ID: 99, Role: "ADMIN"})
	require.NoError(t, err)

	_, err = w.store.Find(studentAlice, freeCourse)
	assert.ErrorIs(t, err, ledger.ErrEnrollmentNotFound)
	assert.False(t, w.accounts.isEnrolled(studentAlice, freeCourse))
}

func TestCertificateSurvivesEnrollmentRemoval(t *testing.T) {
	w := newWorld()
	enrollment, err := w.svc.Enroll(studentAlice, freeCourse, false)
	require.NoError(t, err)

	var serial string
	for _, sectionID := range []uint{101, 102, 103, 104} {
		result, err := w.svc.CompleteSection(studentAlice, freeCourse, sectionID)
		require.NoError(t, err)
		if result.CertificateSerial != "" {
			serial = result.CertificateSerial
		}
	}
	require.NotEmpty(t, serial)

	err = w.svc.RemoveEnrollment(enrollment.ID, ledger.Actor{ID: 99, Role: "ADMIN"})
	require.NoError(t, err)

	view, err := w.svc.VerifyCertificate(serial)
	require.NoError(t, err)
	assert.Equal(t, "Alice Stone", view.StudentName)
}
