package repository

import (
	"errors"
	"fmt"

	course "learnhub/models/course"
	"learnhub/services/ledger"

	"gorm.io/gorm"
)

// CourseCatalog is the GORM-backed ledger.CourseCatalog.
type CourseCatalog struct {
	db *gorm.DB
}

func NewCourseCatalog(db *gorm.DB) *CourseCatalog {
	return &CourseCatalog{db: db}
}

func (r *CourseCatalog) EnrollmentPolicy(courseID uint) (*ledger.EnrollmentPolicy, error) {
	var c course.Course
	if err := r.db.Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: load course: %v", ledger.ErrDependencyUnavailable, err)
	}

	var sectionIDs []uint
	err := r.db.Model(&course.Section{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").
		Pluck("id", &sectionIDs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load sections: %v", ledger.ErrDependencyUnavailable, err)
	}

	return &ledger.EnrollmentPolicy{
		CourseID:           c.ID,
		InstructorID:       c.InstructorID,
		IsPublished:        c.IsPublished,
		Price:              c.Price,
		MaxStudents:        c.MaxStudents,
		EnrollmentDeadline: c.EnrollmentDeadline,
		SectionCount:       len(sectionIDs),
		SectionIDs:         sectionIDs,
	}, nil
}

// CourseSummary resolves certificate metadata. Retired courses still resolve
// here so old certificates keep verifying.
func (r *CourseCatalog) CourseSummary(courseID uint) (*ledger.CourseSummary, error) {
	var c course.Course
	if err := r.db.Where("id = ?", courseID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: load course: %v", ledger.ErrDependencyUnavailable, err)
	}
	return &ledger.CourseSummary{
		CourseID:     c.ID,
		Title:        c.Title,
		InstructorID: c.InstructorID,
	}, nil
}

func (r *CourseCatalog) ActiveEnrollmentCount(courseID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&course.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count enrollments: %v", ledger.ErrDependencyUnavailable, err)
	}
	return count, nil
}

func (r *CourseCatalog) IncrementEnrollmentCount(courseID uint) error {
	err := r.db.Model(&course.Course{}).Where("id = ?", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("%w: increment enrollment count: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *CourseCatalog) AccrueRevenue(courseID uint, amount float64) error {
	err := r.db.Model(&course.Course{}).Where("id = ?", courseID).
		UpdateColumn("platform_revenue", gorm.Expr("platform_revenue + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("%w: accrue revenue: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}
