package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`

	ProjectType string `gorm:"not null;default:internal"` // "internal", "client", "learning", "open_source", "hackathon"
	Status      string `gorm:"not null;default:planning"` // "planning", "active", "on_hold", "completed", "cancelled"
	Visibility  string `gorm:"not null;default:private"`  // "public", "private", "invite_only"

	CreatedByID   *uint `gorm:"index"`
	ProjectLeadID *uint `gorm:"index"`

	StartDate     *time.Time
	TargetDate    *time.Time
	CompletedDate *time.Time

	MaxMembers    uint `gorm:"default:20"`
	AllowRequests bool `gorm:"default:true"`

	RepositoryURL    string
	ProjectURL       string
	DocumentationURL string

	Progress float64 `gorm:"default:0"` // completed tasks / total tasks, 0-100

	// Relationships
	CreatedBy   *User               `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ProjectLead *User               `gorm:"foreignKey:ProjectLeadID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Skills      []Skill             `gorm:"many2many:project_skills"`
	Roles       []ProjectRole       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members     []ProjectMember     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Invitations []ProjectInvitation `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks       []Task              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Files       []ProjectFile       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (p *Project) IsActive() bool {
	return p.Status == "active"
}

// DaysRemaining returns days until the target date for active projects,
// or -1 when no deadline applies.
func (p *Project) DaysRemaining(now time.Time) int {
	if p.TargetDate != nil && p.Status == "active" {
		remaining := int(p.TargetDate.Sub(now).Hours() / 24)
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return -1
}

// BeforeSave defaults the project lead to the creator.
func (p *Project) BeforeSave(tx *gorm.DB) error {
	if p.ProjectLeadID == nil {
		p.ProjectLeadID = p.CreatedByID
	}
	return nil
}
