package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken stores the sha256 of an issued refresh token. The raw token
// is only ever held by the client; lookup hashes the presented value.
// Tokens are rotated on use and revoked on ban/logout.
type RefreshToken struct {
	gorm.Model

	UserID    uint      `gorm:"index;not null"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Usable reports whether the token can still be exchanged.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
