package models

import "gorm.io/gorm"

type SkillCategory struct {
	gorm.Model

	Name string `gorm:"uniqueIndex;not null"`

	// Relationships
	Skills []Skill `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type Skill struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	CategoryID  uint `gorm:"not null;index"`

	// Relationships
	Category SkillCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Category is the course/content taxonomy, distinct from skill categories.
type Category struct {
	gorm.Model

	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	ParentID    *uint `gorm:"index"`

	// Relationships
	Parent        *Category  `gorm:"foreignKey:ParentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SubCategories []Category `gorm:"foreignKey:ParentID"`
}
