package models

import "gorm.io/gorm"

// Role values assignable to a profile. RoleAdmin is the only role that
// grants staff rights; the staff/superuser flags exposed in API responses
// are derived from the role at serialization time and never stored.
const (
	RoleMember      = "member"
	RoleAdmin       = "admin"
	RoleChefDEquipe = "chef_d_equipe"
)

func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleAdmin, RoleChefDEquipe:
		return true
	}
	return false
}

type User struct {
	gorm.Model

	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	// Empty for OAuth-provisioned accounts, which cannot log in with a password.
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool `gorm:"not null;default:true"`

	// Relationships
	Profile          *Profile            `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	RefreshTokens    []RefreshToken      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Files            []UserFile          `gorm:"foreignKey:OwnedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Publications     []Publication       `gorm:"foreignKey:PostedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OwnedProjects    []Project           `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedEvents    []Event             `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Registrations    []EventRegistration `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	SentMessages     []InternalMessage   `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ReceivedMessages []InternalMessage   `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// HasUsablePassword reports whether the account can authenticate with a
// password. OAuth-only accounts have no hash.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}
