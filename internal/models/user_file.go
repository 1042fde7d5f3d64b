package models

import "gorm.io/gorm"

// UserFile is an entry in the shared file library. The display name is the
// caller-declared name taken verbatim; content type and size come from the
// uploaded bytes. The blob lives in the storage backend under StorageKey.
type UserFile struct {
	gorm.Model

	Name        string `gorm:"not null"`
	StorageKey  string `gorm:"size:512;not null"`
	Size        int64  `gorm:"not null"`
	ContentType string `gorm:"size:128"`
	OwnedByID   uint   `gorm:"not null;index"`

	OwnedBy User `gorm:"foreignKey:OwnedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
