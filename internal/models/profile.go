package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds the extended attributes of a user. It is created in the
// same transaction as its user and is never absent for a live account.
type Profile struct {
	gorm.Model

	UserID     uint   `gorm:"uniqueIndex;not null"`
	Role       string `gorm:"not null;default:member"`
	Bio        string
	Phone      string
	Location   string
	Website    string
	AvatarPath string
	// SocialLinks maps a platform name to a URL. Expertise is a flat list
	// of research keywords shown on the team page.
	SocialLinks datatypes.JSON
	Expertise   datatypes.JSON

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsStaff reports whether the profile's role carries staff rights.
func (p *Profile) IsStaff() bool {
	return p.Role == RoleAdmin
}
