package models

import "gorm.io/gorm"

// Registration status values.
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// EventRegistration links a user to an event. The (event, user) pair is
// unique; re-registering is a conflict, not a second row.
type EventRegistration struct {
	gorm.Model

	EventID uint   `gorm:"not null;uniqueIndex:idx_event_user"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_event_user"`
	Status  string `gorm:"not null;default:pending"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
