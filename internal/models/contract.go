package models

import (
	"time"

	"gorm.io/gorm"
)

// Contract records an agreement between a client and a talent. It deliberately
// outlives its originating job posting and proposal: both references go NULL on
// deletion so the payment record is retained for audit.
type Contract struct {
	gorm.Model

	JobID      *uint `gorm:"uniqueIndex"`
	ProposalID *uint `gorm:"uniqueIndex"`

	Title       string `gorm:"not null;default:Contract"`
	Description string

	StartDate       time.Time `gorm:"not null"`
	EndDate         *time.Time
	TotalAmount     float64 `gorm:"not null"`
	PaymentSchedule string  `gorm:"not null;default:milestone"` // "upfront", "milestone", "weekly", "monthly", "on_completion"

	Status   string  `gorm:"not null;default:draft"` // "draft", "active", "completed", "cancelled", "disputed"
	Progress float64 `gorm:"default:0"`              // 0-100

	HasMilestones bool `gorm:"default:false"`

	CommunicationChannel string

	CompletedAt *time.Time

	// Relationships
	Job        *JobPosting `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Proposal   *Proposal   `gorm:"foreignKey:ProposalID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Milestones []Milestone `gorm:"foreignKey:ContractID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (c *Contract) IsActive() bool {
	return c.Status == "active"
}

// DurationDays returns the contract length in days, or -1 when open-ended.
func (c *Contract) DurationDays() int {
	if c.EndDate != nil {
		return int(c.EndDate.Sub(c.StartDate).Hours() / 24)
	}
	return -1
}
