package models

import "gorm.io/gorm"

// ProjectDocument is a file attached to a project. Size and content type
// are derived from the uploaded bytes, never taken from the client.
type ProjectDocument struct {
	gorm.Model

	ProjectID    uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	StorageKey   string `gorm:"size:512;not null"`
	Size         int64  `gorm:"not null"`
	ContentType  string `gorm:"size:128"`
	UploadedByID uint   `gorm:"not null;index"`

	Project    Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UploadedBy User    `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
