package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/storage"
	"github.com/laboissim/laboissim/internal/utils"
	"gorm.io/gorm"
)

type FileResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"file_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"uploaded_by"`
}

func newFileResponse(f *models.UserFile) FileResponse {
	resp := FileResponse{
		ID:          f.ID,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		UploadedAt:  f.CreatedAt,
	}
	resp.UploadedBy.ID = f.OwnedByID
	resp.UploadedBy.Name = f.OwnedBy.Username
	return resp
}

// ListFiles returns every file in the shared library, newest first. All
// authenticated members see all files; only owners may delete.
func ListFiles(ctx *gin.Context) {
	var files []models.UserFile

	if err := db.DB.Preload("OwnedBy").Order("created_at DESC").Find(&files).Error; err != nil {
		log.Printf("Failed to list files: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]FileResponse, 0, len(files))
	for i := range files {
		response = append(response, newFileResponse(&files[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

// UploadFile stores a multipart upload. The content type is sniffed from
// the leading bytes; the display name is the caller's, taken verbatim.
func UploadFile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
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

	key := storage.NewKey("user_files", fileHeader.Filename)
	if err := blobStore.Put(ctx.Request.Context(), key, f, fileHeader.Size, contentType); err != nil {
		log.Printf("Failed to store file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	record := models.UserFile{
		Name:        name,
		StorageKey:  key,
		Size:        fileHeader.Size,
		ContentType: contentType,
		OwnedByID:   currentUser.ID,
	}

	if err := db.DB.Create(&record).Error; err != nil {
		log.Printf("Failed to create file record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	record.OwnedBy = models.User{Model: gorm.Model{ID: currentUser.ID}, Username: currentUser.Username}
	ctx.JSON(http.StatusCreated, newFileResponse(&record))
}

// DownloadFile streams the blob with the stored content type. Any
// authenticated member may download any file.
func DownloadFile(ctx *gin.Context) {
	fileID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var record models.UserFile

	if err := db.DB.First(&record, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			log.Printf("Failed to fetch file: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	blob, err := blobStore.Get(ctx.Request.Context(), record.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			log.Printf("Failed to read blob %s: %v", record.StorageKey, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	defer blob.Close()

	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	ctx.DataFromReader(http.StatusOK, record.Size, contentType, blob, nil)
}

// DeleteFile removes the record and then the backing blob. Owner only.
// The two steps are not atomic; if the blob delete fails the record is
// already gone and the blob is orphaned.
func DeleteFile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var record models.UserFile

	if err := db.DB.First(&record, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		} else {
			log.Printf("Failed to fetch file: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if record.OwnedByID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own files"})
		return
	}

	if err := db.DB.Unscoped().Delete(&record).Error; err != nil {
		log.Printf("Failed to delete file record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := blobStore.Delete(ctx.Request.Context(), record.StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Failed to delete blob %s: %v", record.StorageKey, err)
	}

	ctx.Status(http.StatusNoContent)
}

// sniffContentType detects the mime type from the reader's leading bytes
// and rewinds it for the subsequent store.
func sniffContentType(f io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mtype.String(), nil
}
