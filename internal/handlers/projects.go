package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/storage"
	"github.com/laboissim/laboissim/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MemberIDs   []uint     `json:"member_ids"`
}

type ProjectResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	OwnerID     uint       `json:"owner_id"`
	MemberIDs   []uint     `json:"member_ids"`
}

type ProjectDocumentResponse struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"project_id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"file_type"`
	UploadedByID uint      `json:"uploaded_by_id"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func newProjectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		OwnerID:     p.OwnerID,
	}
	for _, m := range p.Members {
		resp.MemberIDs = append(resp.MemberIDs, m.ID)
	}
	return resp
}

func newProjectDocumentResponse(d *models.ProjectDocument) ProjectDocumentResponse {
	return ProjectDocumentResponse{
		ID:           d.ID,
		ProjectID:    d.ProjectID,
		Name:         d.Name,
		Size:         d.Size,
		ContentType:  d.ContentType,
		UploadedByID: d.UploadedByID,
		UploadedAt:   d.CreatedAt,
	}
}

// ListProjects returns every project. Public.
func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Preload("Members").Order("created_at DESC").Find(&projects).Error; err != nil {
		log.Printf("Failed to list projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, newProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetProject returns one project. Public.
func GetProject(ctx *gin.Context) {
	project, ok := fetchProject(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func CreateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status == "" {
		req.Status = models.ProjectStatusPlanning
	}
	if req.Priority == "" {
		req.Priority = models.ProjectPriorityMedium
	}
	if !models.ValidProjectStatus(req.Status) || !models.ValidProjectPriority(req.Priority) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status or priority"})
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerID:     currentUser.ID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return replaceProjectMembers(tx, &project, req.MemberIDs)
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, newProjectResponse(&project))
}

// UpdateProject edits a project. Owner or staff.
func UpdateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := fetchProject(ctx)
	if !ok {
		return
	}

	if project.OwnerID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own projects"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status != "" && !models.ValidProjectStatus(req.Status) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status"})
		return
	}
	if req.Priority != "" && !models.ValidProjectPriority(req.Priority) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid priority"})
		return
	}

	project.Title = req.Title
	project.Description = req.Description
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.Priority != "" {
		project.Priority = req.Priority
	}
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}
		return replaceProjectMembers(tx, project, req.MemberIDs)
	})

	if err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

// DeleteProject removes a project and its documents. Owner or staff.
func DeleteProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := fetchProject(ctx)
	if !ok {
		return
	}

	if project.OwnerID != currentUser.ID && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own projects"})
		return
	}

	var documents []models.ProjectDocument
	if err := db.DB.Where("project_id = ?", project.ID).Find(&documents).Error; err != nil {
		log.Printf("Failed to list project documents: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	if err := db.DB.Select("Members", "Documents").Delete(project).Error; err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	for _, doc := range documents {
		if err := blobStore.Delete(ctx.Request.Context(), doc.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to delete blob %s: %v", doc.StorageKey, err)
		}
	}

	ctx.Status(http.StatusNoContent)
}

// ListProjectDocuments returns a project's documents. Public.
func ListProjectDocuments(ctx *gin.Context) {
	project, ok := fetchProject(ctx)
	if !ok {
		return
	}

	var documents []models.ProjectDocument

	if err := db.DB.Where("project_id = ?", project.ID).Order("created_at DESC").Find(&documents).Error; err != nil {
		log.Printf("Failed to list project documents: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]ProjectDocumentResponse, 0, len(documents))
	for i := range documents {
		response = append(response, newProjectDocumentResponse(&documents[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// UploadProjectDocument attaches an uploaded file to a project. Owner,
// member or staff.
func UploadProjectDocument(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, ok := fetchProject(ctx)
	if !ok {
		return
	}

	if !canContribute(project, currentUser.ID) && !currentUser.IsStaff() {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project members can add documents"})
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	name := ctx.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	f, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer f.Close()

	contentType, err := sniffContentType(f)
	if err != nil {
		log.Printf("Failed to sniff content type: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	key := storage.NewKey("project_documents", fileHeader.Filename)
	if err := blobStore.Put(ctx.Request.Context(), key, f, fileHeader.Size, contentType); err != nil {
		log.Printf("Failed to store document: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	document := models.ProjectDocument{
		ProjectID:    project.ID,
		Name:         name,
		StorageKey:   key,
		Size:         fileHeader.Size,
		ContentType:  contentType,
		UploadedByID: currentUser.ID,
	}

	if err := db.DB.Create(&document).Error; err != nil {
		log.Printf("Failed to create document record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, newProjectDocumentResponse(&document))
}

// DownloadProjectDocument streams a document blob. Public, like the
// listing.
func DownloadProjectDocument(ctx *gin.Context) {
	documentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var document models.ProjectDocument

	if err := db.DB.First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			log.Printf("Failed to fetch document: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	blob, err := blobStore.Get(ctx.Request.Context(), document.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			log.Printf("Failed to read blob %s: %v", document.StorageKey, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	defer blob.Close()

	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Name))
	ctx.DataFromReader(http.StatusOK, document.Size, contentType, blob, nil)
}

// DeleteProjectDocument removes a document. Uploader, project owner or
// staff.
func DeleteProjectDocument(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	documentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var document models.ProjectDocument

	if err := db.DB.Preload("Project").First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		} else {
			log.Printf("Failed to fetch document: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	allowed := document.UploadedByID == currentUser.ID ||
		document.Project.OwnerID == currentUser.ID ||
		currentUser.IsStaff()

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You cannot delete this document"})
		return
	}

	if err := db.DB.Unscoped().Delete(&document).Error; err != nil {
		log.Printf("Failed to delete document record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := blobStore.Delete(ctx.Request.Context(), document.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Failed to delete blob %s: %v", document.StorageKey, err)
	}

	ctx.Status(http.StatusNoContent)
}

func fetchProject(ctx *gin.Context) (*models.Project, bool) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return nil, false
	}

	var project models.Project

	if err := db.DB.Preload("Members").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}

	return &project, true
}

func canContribute(project *models.Project, userID uint) bool {
	if project.OwnerID == userID {
		return true
	}
	for _, m := range project.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func replaceProjectMembers(tx *gorm.DB, project *models.Project, memberIDs []uint) error {
	if memberIDs == nil {
		return nil
	}

	var members []models.User
	if err := tx.Find(&members, memberIDs).Error; err != nil {
		return err
	}
	if err := tx.Model(project).Association("Members").Replace(members); err != nil {
		return err
	}
	project.Members = members
	return nil
}
