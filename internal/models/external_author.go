package models

import "gorm.io/gorm"

// ExternalAuthor is a publication co-author who has no account on the site.
type ExternalAuthor struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Affiliation string
	Email       string
}
