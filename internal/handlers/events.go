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

type EventRequest struct {
	Type            string    `json:"type" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	EndTime         time.Time `json:"end_time"`
	MaxParticipants *int      `json:"max_participants"`
}

type EventResponse struct {
	ID              uint      `json:"id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	MaxParticipants *int      `json:"max_participants"`
	CreatedByID     uint      `json:"created_by_id"`
	RegisteredCount int64     `json:"registered_count"`
}

type RegistrationResponse struct {
	ID      uint   `json:"id"`
	EventID uint   `json:"event_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
}

var (
	errEventFull        = errors.New("event is full")
	errCapacityTooSmall = errors.New("max_participants below current registrations")
)

func newEventResponse(e *models.Event, registered int64) EventResponse {
	return EventResponse{
		ID:              e.ID,
		Type:            e.Type,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		MaxParticipants: e.MaxParticipants,
		CreatedByID:     e.CreatedByID,
		RegisteredCount: registered,
	}
}

func newRegistrationResponse(r *models.EventRegistration) RegistrationResponse {
	return RegistrationResponse{ID: r.ID, EventID: r.EventID, UserID: r.UserID, Status: r.Status}
}

// ListEvents returns all events ordered by start time. Public.
func ListEvents(ctx *gin.Context) {
	var events []models.Event

	if err := db.DB.Order("start_time").Find(&events).Error; err != nil {
		log.Printf("Failed to list events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]EventResponse, 0, len(events))
	for i := range events {
		registered, err := countRegistrations(db.DB, events[i].ID)
		if err != nil {
			log.Printf("Failed to count registrations: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		response = append(response, newEventResponse(&events[i], registered))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetEvent returns one event. Public.
func GetEvent(ctx *gin.Context) {
	event, ok := fetchEvent(ctx)
	if !ok {
		return
	}

	registered, err := countRegistrations(db.DB, event.ID)
	if err != nil {
		log.Printf("Failed to count registrations: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, newEventResponse(event, registered))
}

func CreateEvent(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req EventRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidEventType(req.Type) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid event type"})
		return
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "max_participants must be positive"})
		return
	}

	event := models.Event{
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		CreatedByID:     currentUser.ID,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to create event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	ctx.JSON(http.StatusCreated, newEventResponse(&event, 0))
}

// UpdateEvent edits an event. Creator or staff.
func UpdateEvent(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := fetchEvent(ctx)
	if !ok {
		return
	}

	if event.CreatedByID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own events"})
		return
	}

	var req EventRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !models.ValidEventType(req.Type) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid event type"})
		return
	}
	if req.MaxParticipants != nil && *req.MaxParticipants < 1 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "max_participants must be positive"})
		return
	}

	event.Type = req.Type
	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	// Omitting max_participants removes the limit.
	event.MaxParticipants = req.MaxParticipants

	var registered int64

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		registered, err = countRegistrations(tx, event.ID)
		if err != nil {
			return err
		}
		if event.MaxParticipants != nil && registered > int64(*event.MaxParticipants) {
			return errCapacityTooSmall
		}
		return tx.Save(event).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errCapacityTooSmall):
			ctx.JSON(http.StatusConflict, gin.H{"error": "max_participants cannot be below the current registration count"})
		default:
			log.Printf("Failed to update event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		}
		return
	}

	ctx.JSON(http.StatusOK, newEventResponse(event, registered))
}

// DeleteEvent removes an event and its registrations. Creator or staff.
func DeleteEvent(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := fetchEvent(ctx)
	if !ok {
		return
	}

	if event.CreatedByID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own events"})
		return
	}

	if err := db.DB.Select("Registrations").Delete(event).Error; err != nil {
		log.Printf("Failed to delete event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// RegisterForEvent creates a registration for the caller. The duplicate
// and capacity checks share a transaction with the insert; under the
// database's default isolation two concurrent registrations can still
// both pass the count, so the limit is best-effort rather than strict.
func RegisterForEvent(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := fetchEvent(ctx)
	if !ok {
		return
	}

	registration := models.EventRegistration{
		EventID: event.ID,
		UserID:  currentUser.ID,
		Status:  models.RegistrationPending,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.EventRegistration
		err := tx.Where("event_id = ? AND user_id = ?", event.ID, currentUser.ID).First(&existing).Error
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if event.MaxParticipants != nil {
			registered, err := countRegistrations(tx, event.ID)
			if err != nil {
				return err
			}
			if registered >= int64(*event.MaxParticipants) {
				return errEventFull
			}
		}

		return tx.Create(&registration).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Already registered for this event"})
		case errors.Is(err, errEventFull):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
		default:
			log.Printf("Failed to register for event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, newRegistrationResponse(&registration))
}

// CancelRegistration sets the caller's registration to cancelled.
func CancelRegistration(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var registration models.EventRegistration

	if err := db.DB.Where("event_id = ? AND user_id = ?", eventID, currentUser.ID).First(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		} else {
			log.Printf("Failed to fetch registration: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Model(&registration).Update("status", models.RegistrationCancelled).Error; err != nil {
		log.Printf("Failed to cancel registration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	registration.Status = models.RegistrationCancelled
	ctx.JSON(http.StatusOK, newRegistrationResponse(&registration))
}

// ConfirmRegistration confirms a pending registration. Event creator or
// staff.
func ConfirmRegistration(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registrationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var registration models.EventRegistration

	if err := db.DB.Preload("Event").First(&registration, registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		} else {
			log.Printf("Failed to fetch registration: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if registration.Event.CreatedByID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the event creator can confirm registrations"})
		return
	}

	if err := db.DB.Model(&registration).Update("status", models.RegistrationConfirmed).Error; err != nil {
		log.Printf("Failed to confirm registration: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	registration.Status = models.RegistrationConfirmed
	ctx.JSON(http.StatusOK, newRegistrationResponse(&registration))
}

// MyRegistrations lists the caller's registrations.
func MyRegistrations(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var registrations []models.EventRegistration

	if err := db.DB.Where("user_id = ?", currentUser.ID).Find(&registrations).Error; err != nil {
		log.Printf("Failed to list registrations: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		response = append(response, newRegistrationResponse(&registrations[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func fetchEvent(ctx *gin.Context) (*models.Event, bool) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return nil, false
	}

	var event models.Event

	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &event, true
}

func countRegistrations(tx *gorm.DB, eventID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.EventRegistration{}).
		Where("event_id = ? AND status <> ?", eventID, models.RegistrationCancelled).
		Count(&count).Error
	return count, err
}
