package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model

	Title            string `gorm:"not null"`
	Description      string
	ShortDescription string `gorm:"not null"`

	MentorID   uint  `gorm:"not null;index"`
	CategoryID *uint `gorm:"index"`

	ThumbnailPath string
	PreviewVideo  string

	Level         string  `gorm:"not null;default:beginner"` // "beginner", "intermediate", "advanced"
	DurationHours float64 `gorm:"default:0"`

	Price         float64 `gorm:"default:0"`
	IsFree        bool    `gorm:"default:false"`
	DiscountPrice *float64

	Status      string `gorm:"not null;default:draft"` // "draft", "published", "archived"
	PublishedAt *time.Time

	StudentsCount uint    `gorm:"default:0"`
	AverageRating float64 `gorm:"default:0"`
	ReviewCount   uint    `gorm:"default:0"`
	IsFeatured    bool    `gorm:"default:false"`
	IsCertified   bool    `gorm:"default:false"`

	// Relationships
	Mentor        User         `gorm:"foreignKey:MentorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Category      *Category    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	SkillsCovered []Skill      `gorm:"many2many:course_skills"`
	Modules       []Module     `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Enrollments   []Enrollment `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Resources     []Resource   `gorm:"foreignKey:CourseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (c *Course) CurrentPrice() float64 {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}
	return c.Price
}

func (c *Course) IsOnDiscount() bool {
	return c.DiscountPrice != nil && *c.DiscountPrice < c.Price
}

func (c *Course) DiscountPercentage() int {
	if c.IsOnDiscount() && c.Price > 0 {
		return int(((c.Price - *c.DiscountPrice) / c.Price) * 100)
	}
	return 0
}

// BeforeSave stamps published_at on first publish and normalizes free pricing.
// The stamp is never cleared, so republishing keeps the original date.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Status == "published" && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}
	if c.IsFree {
		c.Price = 0
		c.DiscountPrice = nil
	}
	return nil
}
