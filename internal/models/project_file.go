package models

import "gorm.io/gorm"

// ProjectFile stores metadata for an uploaded project artifact. Content lives in
// external storage; only the path and bookkeeping fields are tracked here.
type ProjectFile struct {
	gorm.Model

	ProjectID    uint  `gorm:"not null;index"`
	UploadedByID *uint `gorm:"index"`

	FilePath    string `gorm:"not null"`
	FileSize    uint   `gorm:"default:0"`
	Description string
	Category    string `gorm:"not null;default:document"` // "document", "design", "code", "image", "video", "audio", "other"

	IsCurrent       bool `gorm:"default:false"`
	Version         int  `gorm:"default:1"`
	ParentVersionID *uint
	IsPublic        bool `gorm:"default:false"`

	DownloadCount uint `gorm:"default:0"`

	// Relationships
	Project       Project        `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UploadedBy    *ProjectMember `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ParentVersion *ProjectFile   `gorm:"foreignKey:ParentVersionID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
