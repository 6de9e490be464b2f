package models

import "gorm.io/gorm"

type Lesson struct {
	gorm.Model

	ModuleID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	LessonType string `gorm:"not null;default:article"` // "video", "article", "quiz", "assignment"

	VideoURL       string
	ArticleContent string
	AttachmentPath string

	DurationMinutes uint `gorm:"default:0"`
	Order           uint `gorm:"default:0"`
	IsPreview       bool `gorm:"default:false"`
	IsActive        bool `gorm:"default:true"`

	// Relationships
	Module      Module             `gorm:"foreignKey:ModuleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Completions []LessonCompletion `gorm:"foreignKey:LessonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
