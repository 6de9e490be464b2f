package models

import (
	"time"

	"gorm.io/gorm"
)

type JobPosting struct {
	gorm.Model

	ClientID    uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`

	JobType         string `gorm:"not null;default:full_time"` // "full_time", "part_time", "contract", "freelance", "internship"
	ExperienceLevel string `gorm:"not null;default:mid"`       // "entry", "mid", "senior", "expert"

	Location string
	IsRemote bool `gorm:"default:false"`

	BudgetType    string `gorm:"not null;default:fixed"` // "fixed", "hourly", "salary", "milestone"
	Budget        *float64
	DurationWeeks *uint

	ApplicationDeadline *time.Time
	Status              string `gorm:"not null;default:draft"` // "draft", "published", "closed", "filled"

	IsUrgent    bool `gorm:"default:false"`
	PublishedAt *time.Time

	// Relationships
	Client    User       `gorm:"foreignKey:ClientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Skills    []Skill    `gorm:"many2many:job_posting_skills"`
	Proposals []Proposal `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (j *JobPosting) IsActive(now time.Time) bool {
	if j.Status != "published" {
		return false
	}
	if j.ApplicationDeadline != nil && now.After(*j.ApplicationDeadline) {
		return false
	}
	return true
}

// BeforeSave stamps published_at on first publish; the stamp is never reset.
func (j *JobPosting) BeforeSave(tx *gorm.DB) error {
	if j.Status == "published" && j.PublishedAt == nil {
		now := time.Now()
		j.PublishedAt = &now
	}
	return nil
}
