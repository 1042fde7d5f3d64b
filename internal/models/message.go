package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Message status values.
const (
	MessageUnread = "unread"
	MessageRead   = "read"
)

// InternalMessage is a direct message between two members. ConversationID
// groups all messages between the same pair of users regardless of
// direction; it is the sorted pair of participant ids.
type InternalMessage struct {
	gorm.Model

	SenderID       uint   `gorm:"not null;index"`
	ReceiverID     uint   `gorm:"not null;index"`
	Subject        string
	Body           string `gorm:"type:text;not null"`
	Status         string `gorm:"not null;default:unread"`
	ReplyToID      *uint
	ConversationID string `gorm:"size:64;index;not null"`

	Sender   User             `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Receiver User             `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ReplyTo  *InternalMessage `gorm:"foreignKey:ReplyToID"`
}

// ConversationKey returns the canonical conversation id for two users.
func ConversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d-%d", a, b)
}

func (m *InternalMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ConversationID == "" {
		m.ConversationID = ConversationKey(m.SenderID, m.ReceiverID)
	}
	return nil
}
