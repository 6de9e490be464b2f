package models

import "gorm.io/gorm"

type Module struct {
	gorm.Model

	CourseID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Order       uint `gorm:"default:0"`
	IsActive    bool `gorm:"default:true"`

	// Relationships
	Course  Course   `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Lessons []Lesson `gorm:"foreignKey:ModuleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
