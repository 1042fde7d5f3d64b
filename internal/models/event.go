package models

import (
	"time"

	"gorm.io/gorm"
)

// Event types.
const (
	EventTypeConference = "conference"
	EventTypeSeminar    = "seminar"
	EventTypeWorkshop   = "workshop"
	EventTypeMeeting    = "meeting"
)

func ValidEventType(t string) bool {
	switch t {
	case EventTypeConference, EventTypeSeminar, EventTypeWorkshop, EventTypeMeeting:
		return true
	}
	return false
}

// Event is a scheduled lab activity. MaxParticipants nil means unlimited
// capacity; when set, the count of non-cancelled registrations may never
// exceed it.
type Event struct {
	gorm.Model

	Type            string `gorm:"not null"`
	Title           string `gorm:"not null"`
	Description     string `gorm:"type:text"`
	Location        string
	StartTime       time.Time `gorm:"not null"`
	EndTime         time.Time
	MaxParticipants *int
	CreatedByID     uint `gorm:"not null;index"`

	CreatedBy     User                `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
