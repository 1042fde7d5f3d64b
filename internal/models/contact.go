package models

import "gorm.io/gorm"

// ContactMessage status values: new -> read -> replied.
const (
	ContactNew     = "new"
	ContactRead    = "read"
	ContactReplied = "replied"
)

func ValidContactStatus(s string) bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied:
		return true
	}
	return false
}

// ContactMessage is an anonymous submission from the public contact form.
type ContactMessage struct {
	gorm.Model

	Name    string `gorm:"not null"`
	Email   string `gorm:"not null"`
	Subject string
	Body    string `gorm:"type:text;not null"`
	Status  string `gorm:"not null;default:new"`
}

// AccountRequest status values: pending -> approved | rejected.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AccountRequest is a public application to join the team. Approval
// provisions an account for the email if one does not exist yet.
type AccountRequest struct {
	gorm.Model

	Name       string `gorm:"not null"`
	Email      string `gorm:"not null"`
	Motivation string `gorm:"type:text"`
	Status     string `gorm:"not null;default:pending"`
}
