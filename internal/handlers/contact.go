package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/gorm"
)

type ContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

type AccountRequestRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Motivation string `json:"motivation"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitContactMessage accepts an anonymous contact form submission.
func SubmitContactMessage(ctx *gin.Context) {
	var req ContactMessageRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.ContactNew,
	}

	if err := db.DB.Create(&message).Error; err != nil {
		log.Printf("Failed to create contact message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Message received"})
}

// ListContactMessages lists contact submissions, newest first. Staff only.
func ListContactMessages(ctx *gin.Context) {
	var messages []models.ContactMessage

	if err := db.DB.Order("created_at DESC").Find(&messages).Error; err != nil {
		log.Printf("Failed to list contact messages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// UpdateContactMessageStatus moves a contact message along
// new -> read -> replied. Staff only.
func UpdateContactMessageStatus(ctx *gin.Context) {
	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidContactStatus(req.Status) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status"})
		return
	}

	var message models.ContactMessage

	if err := db.DB.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact message not found"})
		} else {
			log.Printf("Failed to fetch contact message: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Model(&message).Update("status", req.Status).Error; err != nil {
		log.Printf("Failed to update contact message: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	message.Status = req.Status
	ctx.JSON(http.StatusOK, message)
}

// SubmitAccountRequest accepts a public application to join the team.
func SubmitAccountRequest(ctx *gin.Context) {
	var req AccountRequestRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	request := models.AccountRequest{
		Name:       req.Name,
		Email:      req.Email,
		Motivation: req.Motivation,
		Status:     models.RequestPending,
	}

	if err := db.DB.Create(&request).Error; err != nil {
		log.Printf("Failed to create account request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Request received"})
}

// ListAccountRequests lists applications, newest first. Staff only.
func ListAccountRequests(ctx *gin.Context) {
	var requests []models.AccountRequest

	if err := db.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		log.Printf("Failed to list account requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

// ResolveAccountRequest approves or rejects a pending request. Approval
// also provisions an account for the email if none exists, without a
// usable password, like the OAuth path.
func ResolveAccountRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != models.RequestApproved && req.Status != models.RequestRejected {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Status must be approved or rejected"})
		return
	}

	var request models.AccountRequest

	if err := db.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Account request not found"})
		} else {
			log.Printf("Failed to fetch account request: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if request.Status != models.RequestPending {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Request already resolved"})
		return
	}

	if req.Status == models.RequestApproved {
		_, err := accounts.Create(db.DB, accounts.CreateParams{
			Username: request.Email,
			Email:    request.Email,
		})
		if err != nil && !errors.Is(err, accounts.ErrEmailTaken) {
			log.Printf("Failed to provision account for request %d: %v", request.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if err := db.DB.Model(&request).Update("status", req.Status).Error; err != nil {
		log.Printf("Failed to update account request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	request.Status = req.Status
	ctx.JSON(http.StatusOK, request)
}
