package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model

	StudentID uint `gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID  uint `gorm:"not null;uniqueIndex:idx_student_course"`

	AmountPaid    float64 `gorm:"default:0"`
	PaymentStatus string  `gorm:"not null;default:pending"` // "pending", "completed", "failed", "refunded"
	PaymentDate   *time.Time

	Progress    float64 `gorm:"default:0"` // completion percentage, 0-100
	CompletedAt *time.Time

	CertificateIssued   bool `gorm:"default:false"`
	CertificateIssuedAt *time.Time

	IsActive bool `gorm:"default:true"`

	// Relationships
	Student           User               `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Course            Course             `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	LessonCompletions []LessonCompletion `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Review            *CourseReview      `gorm:"foreignKey:EnrollmentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (e *Enrollment) IsCompleted() bool {
	return e.Progress >= 100
}
