package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage        string     `gorm:"default:''" json:"profile_image"`
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Role                string     `gorm:"default:'STUDENT'" json:"role"` // STUDENT, INSTRUCTOR, ADMIN
	Password            string     `gorm:"not null" json:"-"`
	Bio                 string     `gorm:"type:text" json:"bio"`
	Earnings            float64    `gorm:"default:0" json:"earnings"` // accumulated instructor share of paid enrollments
	LastLogin           time.Time  `gorm:"default:NULL" json:"last_login"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"-"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}
