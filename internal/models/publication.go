package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication is a research output posted by a member. Listings are newest
// first. Authors can be site members or external collaborators, and files
// from the shared library can be attached.
type Publication struct {
	gorm.Model

	Title      string `gorm:"size:500;not null"`
	Abstract   string `gorm:"type:text"`
	PostedByID uint   `gorm:"not null;index"`
	PostedAt   time.Time

	PostedBy        User             `gorm:"foreignKey:PostedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Authors         []User           `gorm:"many2many:publication_authors"`
	ExternalAuthors []ExternalAuthor `gorm:"many2many:publication_external_authors"`
	Attachments     []UserFile       `gorm:"many2many:publication_attachments"`
}

func (p *Publication) BeforeCreate(tx *gorm.DB) error {
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now()
	}
	return nil
}
