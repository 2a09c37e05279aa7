package course

import "gorm.io/gorm"

// Section is an atomic unit of course content that students mark complete
type Section struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // section order in course
	IsDeleted   bool   `gorm:"default:false" json:"-"`
}
