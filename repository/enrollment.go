package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	course "learnhub/models/course"
	"learnhub/services/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentRepository is the GORM-backed ledger.EnrollmentStore. The unique
// indexes on enrollments and completed_sections do the heavy lifting; every
// racy transition is a conditional update checked via RowsAffected.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(e *course.Enrollment) error {
	if err := r.db.Create(e).Error; err != nil {
		if isDuplicateKey(err) {
			return ledger.ErrAlreadyEnrolled
		}
		return fmt.Errorf("%w: create enrollment: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *EnrollmentRepository) Find(studentID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	if err := r.db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("%w: find enrollment: %v", ledger.ErrDependencyUnavailable, err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByID(enrollmentID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	if err := r.db.Where("id = ?", enrollmentID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("%w: find enrollment: %v", ledger.ErrDependencyUnavailable, err)
	}
	return &e, nil
}

func (r *EnrollmentRepository) AddCompletedSection(enrollmentID, sectionID uint, at time.Time) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "section_id"}},
		DoNothing: true,
	}).Create(&course.CompletedSection{
		EnrollmentID: enrollmentID,
		SectionID:    sectionID,
		CompletedAt:  at,
	})
	if res.Error != nil {
		return false, fmt.Errorf("%w: add completed section: %v", ledger.ErrDependencyUnavailable, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *EnrollmentRepository) CountCompletedSections(enrollmentID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&course.CompletedSection{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count completed sections: %v", ledger.ErrDependencyUnavailable, err)
	}
	return count, nil
}

// RecomputeProgress derives progress from the completed-section rows in the
// UPDATE itself, so two racing completions both land on a value computed
// from the set as stored, never on a stale snapshot carried in from the
// application.
func (r *EnrollmentRepository) RecomputeProgress(enrollmentID uint, sectionTotal int, accessedAt time.Time) (int, error) {
	if sectionTotal < 1 {
		return 0, r.Touch(enrollmentID, accessedAt)
	}
	res := r.db.Exec(`
		UPDATE enrollments SET progress = (
			SELECT CASE WHEN COUNT(*) >= ? THEN 100
				ELSE CAST(ROUND(100.0 * COUNT(*) / ?) AS INTEGER) END
			FROM completed_sections
			WHERE enrollment_id = ? AND deleted_at IS NULL
		), last_accessed_at = ?, updated_at = ?
		WHERE id = ?`,
		sectionTotal, sectionTotal, enrollmentID, accessedAt, accessedAt, enrollmentID)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: recompute progress: %v", ledger.ErrDependencyUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ledger.ErrEnrollmentNotFound
	}

	var e course.Enrollment
	if err := r.db.Select("progress").Where("id = ?", enrollmentID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ledger.ErrEnrollmentNotFound
		}
		return 0, fmt.Errorf("%w: read progress: %v", ledger.ErrDependencyUnavailable, err)
	}
	return e.Progress, nil
}

func (r *EnrollmentRepository) Touch(enrollmentID uint, accessedAt time.Time) error {
	err := r.db.Model(&course.Enrollment{}).Where("id = ?", enrollmentID).
		Update("last_accessed_at", accessedAt).Error
	if err != nil {
		return fmt.Errorf("%w: touch enrollment: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *EnrollmentRepository) MarkCompleted(enrollmentID uint, at time.Time) (bool, error) {
	res := r.db.Model(&course.Enrollment{}).
		Where("id = ? AND completed_at IS NULL", enrollmentID).
		Update("completed_at", at)
	if res.Error != nil {
		return false, fmt.Errorf("%w: mark completed: %v", ledger.ErrDependencyUnavailable, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *EnrollmentRepository) ClaimCertificate(enrollmentID uint, serial string) (bool, error) {
	res := r.db.Model(&course.Enrollment{}).
		Where("id = ? AND certificate_issued = ?", enrollmentID, false).
		Updates(map[string]interface{}{
			"certificate_issued": true,
			"certificate_serial": serial,
		})
	if res.Error != nil {
		return false, fmt.Errorf("%w: claim certificate: %v", ledger.ErrDependencyUnavailable, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *EnrollmentRepository) CreateCertificate(cert *course.Certificate) error {
	if err := r.db.Create(cert).Error; err != nil {
		return fmt.Errorf("%w: create certificate: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *EnrollmentRepository) FindCertificateBySerial(serial string) (*course.Certificate, error) {
	var cert course.Certificate
	if err := r.db.Where("serial = ?", serial).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("%w: find certificate: %v", ledger.ErrDependencyUnavailable, err)
	}
	return &cert, nil
}

// Delete removes the enrollment and its completed-section rows for good. A
// hard delete keeps the unique (student, course) index open for a later
// re-enrollment.
func (r *EnrollmentRepository) Delete(enrollmentID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("enrollment_id = ?", enrollmentID).Delete(&course.CompletedSection{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id = ?", enrollmentID).Delete(&course.Enrollment{}).Error
	})
	if err != nil {
		return fmt.Errorf("%w: delete enrollment: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

// isDuplicateKey matches unique-constraint violations across the drivers in
// use (gorm translation, Postgres 23505, sqlite message).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
