package models

import "gorm.io/gorm"

type CourseReview struct {
	gorm.Model

	EnrollmentID uint `gorm:"not null;uniqueIndex"`
	Rating       uint `gorm:"not null"` // 1-5 stars
	Title        string
	Comment      string

	IsApproved bool `gorm:"default:false"`

	HelpfulCount    uint `gorm:"default:0"`
	NotHelpfulCount uint `gorm:"default:0"`

	// Relationships
	Enrollment Enrollment `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
