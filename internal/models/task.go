package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	Priority string `gorm:"not null;default:medium"` // "low", "medium", "high", "critical"
	Status   string `gorm:"not null;default:todo"`   // "backlog", "todo", "in_progress", "review", "completed", "cancelled"

	EstimatedHours *float64
	ActualHours    *float64

	AssignedToID *uint `gorm:"index"`
	CreatedByID  *uint `gorm:"index"`

	DueDate     *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	ParentTaskID *uint `gorm:"index"`

	Progress float64 `gorm:"default:0"` // 0-100

	// Relationships
	Project    Project        `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTo *ProjectMember `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	CreatedBy  *ProjectMember `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ParentTask *Task          `gorm:"foreignKey:ParentTaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Subtasks   []Task         `gorm:"foreignKey:ParentTaskID"`
	Skills     []Skill        `gorm:"many2many:task_skills"`
}

func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == "completed" || t.Status == "cancelled" {
		return false
	}
	return t.DueDate.Before(now)
}
