package models

import "gorm.io/gorm"

type Proposal struct {
	gorm.Model

	JobID     uint `gorm:"not null;uniqueIndex:idx_job_applier"`
	ApplierID uint `gorm:"not null;uniqueIndex:idx_job_applier"`

	CoverLetter    string  `gorm:"not null"`
	ProposedAmount float64 `gorm:"not null"`
	EstimatedDays  uint    `gorm:"not null"`

	AttachmentPath string

	Status string `gorm:"not null;default:submitted"` // "submitted", "under_review", "accepted", "rejected", "withdrawn"

	ClientNotes string
	Rating      *uint // client rating of the proposal, 1-5

	// Relationships
	Job     JobPosting `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applier User       `gorm:"foreignKey:ApplierID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
