package models

import "gorm.io/gorm"

type ProjectRole struct {
	gorm.Model

	ProjectID   uint   `gorm:"not null;uniqueIndex:idx_project_role_title"`
	Title       string `gorm:"not null;uniqueIndex:idx_project_role_title"`
	Description string

	CanManageTasks   bool `gorm:"default:false"`
	CanManageMembers bool `gorm:"default:false"`
	CanEditProject   bool `gorm:"default:false"`
	CanDeleteContent bool `gorm:"default:false"`

	MaxMembers uint `gorm:"default:1"`
	IsActive   bool `gorm:"default:true"`

	// Relationships
	Project Project         `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members []ProjectMember `gorm:"foreignKey:RoleID"`
}
