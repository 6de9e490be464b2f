package models

import (
	"time"

	"gorm.io/gorm"
)

type PortfolioItem struct {
	gorm.Model

	OwnerID     uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`

	ProjectType   string `gorm:"not null;default:other"`       // "web", "mobile", "design", "marketing", "video", "writing", "other"
	ProjectStatus string `gorm:"not null;default:in_progress"` // "completed", "in_progress", "not_started"
	Visibility    string `gorm:"not null;default:public"`      // "public", "private", "link_only"

	Technologies string
	ClientName   string
	ProjectURL   string
	GithubURL    string

	StartDate *time.Time
	EndDate   *time.Time

	ViewsCount uint `gorm:"default:0"`
	LikesCount uint `gorm:"default:0"`

	IsApproved bool `gorm:"default:false"`
	IsFeatured bool `gorm:"default:false"`

	// Relationships
	Owner  User             `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Skills []Skill          `gorm:"many2many:portfolio_item_skills"`
	Images []PortfolioImage `gorm:"foreignKey:PortfolioItemID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (p *PortfolioItem) IsVisible() bool {
	return p.Visibility == "public" || p.Visibility == "link_only"
}
