package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectMember struct {
	gorm.Model

	ProjectID uint  `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint  `gorm:"not null;uniqueIndex:idx_project_user"`
	RoleID    *uint `gorm:"index"`

	IsActive   bool `gorm:"default:true"`
	IsApproved bool `gorm:"default:false"`

	JoinedAt   *time.Time
	ApprovedAt *time.Time
	LeftAt     *time.Time

	MemberNotes string

	// Relationships
	Project Project      `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Role    *ProjectRole `gorm:"foreignKey:RoleID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
