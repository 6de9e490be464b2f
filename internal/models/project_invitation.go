package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectInvitation struct {
	gorm.Model

	ProjectID     uint `gorm:"not null;uniqueIndex:idx_project_invited_user"`
	InvitedByID   uint `gorm:"not null;index"`
	InvitedUserID uint `gorm:"not null;uniqueIndex:idx_project_invited_user"`
	RoleID        uint `gorm:"not null;index"`

	Message     string
	Status      string `gorm:"not null;default:pending"` // "pending", "accepted", "declined", "expired"
	ExpiresAt   *time.Time
	RespondedAt *time.Time

	// Relationships
	Project     Project       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	InvitedBy   ProjectMember `gorm:"foreignKey:InvitedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	InvitedUser User          `gorm:"foreignKey:InvitedUserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Role        ProjectRole   `gorm:"foreignKey:RoleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (i *ProjectInvitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}
