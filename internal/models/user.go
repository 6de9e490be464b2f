package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	Role         string `gorm:"not null;default:talent"` // "talent", "client", "mentor", "admin"

	ProfilePicture string
	PhoneNumber    string
	Location       string

	IsVerified bool `gorm:"default:false"`
	IsActive   bool `gorm:"default:true"`
	IsStaff    bool `gorm:"default:false"`

	Website  string
	Github   string
	Linkedin string
	Twitter  string

	// Relationships
	Profile        UserProfile     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Skills         []Skill         `gorm:"many2many:user_skills"`
	Enrollments    []Enrollment    `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PortfolioItems []PortfolioItem `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JobPostings    []JobPosting    `gorm:"foreignKey:ClientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Proposals      []Proposal      `gorm:"foreignKey:ApplierID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdminUser() bool {
	return u.Role == "admin" || u.IsStaff
}

// BeforeSave keeps the admin role and the staff flag in sync, in both directions.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == "admin" {
		u.IsStaff = true
	} else if u.IsStaff {
		u.Role = "admin"
	}
	return nil
}

type PasswordResetCode struct {
	gorm.Model

	UserID    uint   `gorm:"not null;index"`
	Code      string `gorm:"not null"`
	IsUsed    bool   `gorm:"default:false"`
	ExpiresAt time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (c *PasswordResetCode) IsValid(now time.Time) bool {
	return !c.IsUsed && now.Before(c.ExpiresAt)
}
