package models

import "gorm.io/gorm"

type PortfolioImage struct {
	gorm.Model

	PortfolioItemID uint   `gorm:"not null;index"`
	ImagePath       string `gorm:"not null"`
	Caption         string
	IsPrimary       bool `gorm:"default:false"`

	// Relationships
	PortfolioItem PortfolioItem `gorm:"foreignKey:PortfolioItemID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
