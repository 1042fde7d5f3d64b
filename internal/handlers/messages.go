package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/utils"
	"gorm.io/gorm"
)

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Subject    string `json:"subject"`
	Body       string `json:"body" binding:"required"`
	ReplyToID  *uint  `json:"reply_to_id"`
}

type MessageResponse struct {
	ID             uint      `json:"id"`
	SenderID       uint      `json:"sender_id"`
	ReceiverID     uint      `json:"receiver_id"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Status         string    `json:"status"`
	ReplyToID      *uint     `json:"reply_to_id"`
	ConversationID string    `json:"conversation_id"`
	SentAt         time.Time `json:"sent_at"`
}

func newMessageResponse(m *models.InternalMessage) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Subject:        m.Subject,
		Body:           m.Body,
		Status:         m.Status,
		ReplyToID:      m.ReplyToID,
		ConversationID: m.ConversationID,
		SentAt:         m.CreatedAt,
	}
}

// SendMessage creates a message and notifies the receiver over the
// websocket hub if they are connected.
func SendMessage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SendMessageRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.ReceiverID == currentUser.ID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a message to yourself"})
		return
	}

	var receiver models.User
	if err := db.DB.First(&receiver, req.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Receiver not found"})
		} else {
			log.Printf("Failed to fetch receiver: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if req.ReplyToID != nil {
		var parent models.InternalMessage
		if err := db.DB.First(&parent, *req.ReplyToID).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "reply_to_id does not exist"})
			return
		}
		if parent.ConversationID != models.ConversationKey(currentUser.ID, req.ReceiverID) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "reply_to_id belongs to another conversation"})
			return
		}
	}

	message := models.InternalMessage{
		SenderID:   currentUser.ID,
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Body:       req.Body,
		Status:     models.MessageUnread,
		ReplyToID:  req.ReplyToID,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	NotifyUser(message.ReceiverID, gin.H{
		"type":            "message",
		"message_id":      message.ID,
		"sender_id":       message.SenderID,
		"subject":         message.Subject,
		"conversation_id": message.ConversationID,
	})

	ctx.JSON(http.StatusCreated, newMessageResponse(&message))
}

// Inbox lists messages received by the caller, newest first.
func Inbox(ctx *gin.Context) {
	listMessages(ctx, "receiver_id = ?")
}

// SentMessages lists messages sent by the caller, newest first.
func SentMessages(ctx *gin.Context) {
	listMessages(ctx, "sender_id = ?")
}

func listMessages(ctx *gin.Context, where string) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var messages []models.InternalMessage

	if err := db.DB.Where(where, currentUser.ID).Order("created_at DESC").Find(&messages).Error; err != nil {
		log.Printf("Failed to list messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, newMessageResponse(&messages[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// Conversation returns the full thread between the caller and another
// user, oldest first.
func Conversation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	otherID, ok := parseIDParam(ctx, "user_id")
	if !ok {
		return
	}

	var messages []models.InternalMessage

	err = db.DB.
		Where("conversation_id = ?", models.ConversationKey(currentUser.ID, otherID)).
		Order("created_at").
		Find(&messages).Error

	if err != nil {
		log.Printf("Failed to load conversation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, newMessageResponse(&messages[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// MarkMessageRead flips a message to read. Receiver only. A message that
// is not addressed to the caller is reported as missing, not forbidden, so
// conversation existence does not leak.
func MarkMessageRead(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var message models.InternalMessage

	if err := db.DB.Where("id = ? AND receiver_id = ?", messageID, currentUser.ID).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		} else {
			log.Printf("Failed to fetch message: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Model(&message).Update("status", models.MessageRead).Error; err != nil {
		log.Printf("Failed to mark message read: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	message.Status = models.MessageRead
	ctx.JSON(http.StatusOK, newMessageResponse(&message))
}

// DeleteMessage removes a message. Sender or receiver; others get a 404
// for the same non-leak reason as MarkMessageRead.
func DeleteMessage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var message models.InternalMessage

	err = db.DB.
		Where("id = ? AND (sender_id = ? OR receiver_id = ?)", messageID, currentUser.ID, currentUser.ID).
		First(&message).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		} else {
			log.Printf("Failed to fetch message: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Unscoped().Delete(&message).Error; err != nil {
		log.Printf("Failed to delete message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
