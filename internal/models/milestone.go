package models

import (
	"time"

	"gorm.io/gorm"
)

type Milestone struct {
	gorm.Model

	ContractID  uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string

	Amount  float64 `gorm:"not null"`
	DueDate *time.Time

	Status string `gorm:"not null;default:pending"` // "pending", "in_progress", "completed", "approved", "paid"

	CompletedAt *time.Time
	PaidAt      *time.Time

	// Relationships
	Contract Contract `gorm:"foreignKey:ContractID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsOverdue falls back to the contract end date when the milestone itself has
// no due date. Settled milestones are never overdue.
func (m *Milestone) IsOverdue(contract *Contract, now time.Time) bool {
	if m.Status != "pending" && m.Status != "in_progress" {
		return false
	}
	if m.DueDate != nil {
		return m.DueDate.Before(now)
	}
	if contract != nil && contract.EndDate != nil {
		return contract.EndDate.Before(now)
	}
	return false
}
