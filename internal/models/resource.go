package models

import "gorm.io/gorm"

// Resource is a downloadable extra attached to a course (or standalone).
type Resource struct {
	gorm.Model

	Title        string `gorm:"not null"`
	Description  string
	ResourceType string `gorm:"not null;default:other"` // "template", "ebook", "cheatsheet", "code", "tool", "other"

	FilePath string `gorm:"not null"`
	FileSize uint   `gorm:"default:0"`

	CourseID      *uint `gorm:"index"`
	IsFree        bool  `gorm:"default:false"`
	DownloadCount uint  `gorm:"default:0"`
	IsActive      bool  `gorm:"default:true"`

	// Relationships
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
