package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserProfile struct {
	gorm.Model

	UserID uint `gorm:"not null;uniqueIndex"`

	Title           string
	Company         string
	ExperienceYears uint `gorm:"default:0"`
	Bio             string

	HourlyRate    *float64
	IsAvailable   bool `gorm:"default:false"`
	AvailableFrom *time.Time

	NotificationPreferences datatypes.JSON `gorm:"type:jsonb"`

	CompletedProjects uint    `gorm:"default:0"`
	SuccessRate       float64 `gorm:"default:0"`
}
