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

type PublicationRequest struct {
	Title             string `json:"title" binding:"required"`
	Abstract          string `json:"abstract"`
	AuthorIDs         []uint `json:"author_ids"`
	ExternalAuthorIDs []uint `json:"external_author_ids"`
	AttachmentIDs     []uint `json:"attachment_ids"`
}

type PublicationResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Abstract        string     `json:"abstract"`
	PostedByID      uint       `json:"posted_by_id"`
	PostedAt        time.Time  `json:"posted_at"`
	AuthorIDs       []uint     `json:"author_ids"`
	ExternalAuthors []string   `json:"external_authors"`
	AttachmentIDs   []uint     `json:"attachment_ids"`
}

func newPublicationResponse(p *models.Publication) PublicationResponse {
	resp := PublicationResponse{
		ID:         p.ID,
		Title:      p.Title,
		Abstract:   p.Abstract,
		PostedByID: p.PostedByID,
		PostedAt:   p.PostedAt,
	}
	for _, a := range p.Authors {
		resp.AuthorIDs = append(resp.AuthorIDs, a.ID)
	}
	for _, e := range p.ExternalAuthors {
		resp.ExternalAuthors = append(resp.ExternalAuthors, e.Name)
	}
	for _, f := range p.Attachments {
		resp.AttachmentIDs = append(resp.AttachmentIDs, f.ID)
	}
	return resp
}

// ListPublications returns all publications, newest first. Public.
func ListPublications(ctx *gin.Context) {
	var publications []models.Publication

	err := db.DB.
		Preload("Authors").
		Preload("ExternalAuthors").
		Preload("Attachments").
		Order("posted_at DESC").
		Find(&publications).Error

	if err != nil {
		log.Printf("Failed to list publications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]PublicationResponse, 0, len(publications))
	for i := range publications {
		response = append(response, newPublicationResponse(&publications[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetPublication returns one publication. Public.
func GetPublication(ctx *gin.Context) {
	publication, ok := fetchPublication(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, newPublicationResponse(publication))
}

// CreatePublication posts a publication and links its authors and
// attachments.
func CreatePublication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req PublicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	publication := models.Publication{
		Title:      req.Title,
		Abstract:   req.Abstract,
		PostedByID: currentUser.ID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&publication).Error; err != nil {
			return err
		}
		return applyPublicationLinks(tx, &publication, req)
	})

	if err != nil {
		log.Printf("Failed to create publication: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create publication"})
		return
	}

	ctx.JSON(http.StatusCreated, newPublicationResponse(&publication))
}

// UpdatePublication edits a publication. Poster or staff.
func UpdatePublication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	publication, ok := fetchPublication(ctx)
	if !ok {
		return
	}

	if publication.PostedByID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own publications"})
		return
	}

	var req PublicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	publication.Title = req.Title
	publication.Abstract = req.Abstract

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(publication).Error; err != nil {
			return err
		}
		return applyPublicationLinks(tx, publication, req)
	})

	if err != nil {
		log.Printf("Failed to update publication: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication"})
		return
	}

	ctx.JSON(http.StatusOK, newPublicationResponse(publication))
}

// DeletePublication removes a publication. Poster or staff.
func DeletePublication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	publication, ok := fetchPublication(ctx)
	if !ok {
		return
	}

	if publication.PostedByID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own publications"})
		return
	}

	if err := db.DB.Select("Authors", "ExternalAuthors", "Attachments").Delete(publication).Error; err != nil {
		log.Printf("Failed to delete publication: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete publication"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func fetchPublication(ctx *gin.Context) (*models.Publication, bool) {
	publicationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return nil, false
	}

	var publication models.Publication

	err := db.DB.
		Preload("Authors").
		Preload("ExternalAuthors").
		Preload("Attachments").
		First(&publication, publicationID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
		} else {
			log.Printf("Failed to fetch publication: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &publication, true
}

func applyPublicationLinks(tx *gorm.DB, publication *models.Publication, req PublicationRequest) error {
	if req.AuthorIDs != nil {
		var authors []models.User
		if err := tx.Find(&authors, req.AuthorIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(publication).Association("Authors").Replace(authors); err != nil {
			return err
		}
	}

	if req.ExternalAuthorIDs != nil {
		var externals []models.ExternalAuthor
		if err := tx.Find(&externals, req.ExternalAuthorIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(publication).Association("ExternalAuthors").Replace(externals); err != nil {
			return err
		}
	}

	if req.AttachmentIDs != nil {
		var attachments []models.UserFile
		if err := tx.Find(&attachments, req.AttachmentIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(publication).Association("Attachments").Replace(attachments); err != nil {
			return err
		}
	}

	return nil
}
