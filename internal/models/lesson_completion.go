package models

import (
	"time"

	"gorm.io/gorm"
)

// LessonCompletion tracks completion of an individual lesson within an enrollment.
type LessonCompletion struct {
	gorm.Model

	EnrollmentID uint `gorm:"not null;uniqueIndex:idx_enrollment_lesson"`
	LessonID     uint `gorm:"not null;uniqueIndex:idx_enrollment_lesson"`

	CompletedAt      time.Time `gorm:"not null"`
	TimeSpentMinutes uint      `gorm:"default:0"`
	Notes            string

	// Relationships
	Enrollment Enrollment `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Lesson     Lesson     `gorm:"foreignKey:LessonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
