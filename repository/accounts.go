package repository

import (
	"errors"
	"fmt"
	"time"

	"learnhub/models"
	"learnhub/services/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountDirectory is the GORM-backed ledger.AccountDirectory. Membership
// writes use insert-or-ignore so retried side effects stay commutative.
type AccountDirectory struct {
	db *gorm.DB
}

func NewAccountDirectory(db *gorm.DB) *AccountDirectory {
	return &AccountDirectory{db: db}
}

func (r *AccountDirectory) DisplayName(userID uint) (string, error) {
	var user models.User
	if err := r.db.Select("name").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ledger.ErrAccountNotFound
		}
		return "", fmt.Errorf("%w: load user: %v", ledger.ErrDependencyUnavailable, err)
	}
	return user.Name, nil
}

func (r *AccountDirectory) AccrueInstructorEarnings(instructorID uint, amount float64) error {
	err := r.db.Model(&models.User{}).Where("id = ?", instructorID).
		UpdateColumn("earnings", gorm.Expr("earnings + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("%w: accrue earnings: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *AccountDirectory) AddEnrolledCourse(studentID, courseID uint) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&models.EnrolledCourse{UserID: studentID, CourseID: courseID}).Error
	if err != nil {
		return fmt.Errorf("%w: add enrolled course: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *AccountDirectory) AddCompletedCourse(studentID, courseID uint, grade string, completedAt time.Time) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&models.CompletedCourse{
		UserID:      studentID,
		CourseID:    courseID,
		Grade:       grade,
		CompletedAt: completedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("%w: add completed course: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}

func (r *AccountDirectory) RemoveEnrolledCourse(studentID, courseID uint) error {
	err := r.db.Unscoped().
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Delete(&models.EnrolledCourse{}).Error
	if err != nil {
		return fmt.Errorf("%w: remove enrolled course: %v", ledger.ErrDependencyUnavailable, err)
	}
	return nil
}
