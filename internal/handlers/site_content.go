package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetSiteContent returns the singleton content row, creating it with
// defaults on first access. Public.
func GetSiteContent(ctx *gin.Context) {
	content, err := loadSiteContent()
	if err != nil {
		log.Printf("Failed to load site content: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, content)
}

// UpdateSiteContent applies a partial update: body keys are matched against
// the model's json tags, unknown keys are ignored. Staff only.
func UpdateSiteContent(ctx *gin.Context) {
	var body map[string]json.RawMessage

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	content, err := loadSiteContent()
	if err != nil {
		log.Printf("Failed to load site content: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := applySiteContentUpdate(content, body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content.ID = models.SiteContentID

	if err := db.DB.Save(content).Error; err != nil {
		log.Printf("Failed to save site content: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, content)
}

func loadSiteContent() (*models.SiteContent, error) {
	var content models.SiteContent

	err := db.DB.First(&content, models.SiteContentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		content = models.SiteContentDefaults()
		err = db.DB.Create(&content).Error
	}
	if err != nil {
		return nil, err
	}

	return &content, nil
}

var siteContentFields = sync.OnceValue(func() map[string]int {
	fields := make(map[string]int)
	t := reflect.TypeOf(models.SiteContent{})
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" || tag == "id" {
			continue
		}
		fields[tag] = i
	}
	return fields
})

// applySiteContentUpdate writes each recognized key onto the struct field
// whose json tag matches, with a type check per field kind.
func applySiteContentUpdate(content *models.SiteContent, body map[string]json.RawMessage) error {
	v := reflect.ValueOf(content).Elem()

	for key, raw := range body {
		idx, ok := siteContentFields()[key]
		if !ok {
			continue
		}

		field := v.Field(idx)

		switch field.Interface().(type) {
		case string:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fieldTypeError(key, "string")
			}
			field.SetString(s)
		case int:
			var n int64
			if err := json.Unmarshal(raw, &n); err != nil {
				return fieldTypeError(key, "number")
			}
			field.SetInt(n)
		case datatypes.JSON:
			if !json.Valid(raw) {
				return fieldTypeError(key, "json")
			}
			field.Set(reflect.ValueOf(datatypes.JSON(raw)))
		}
	}

	return nil
}

func fieldTypeError(key, want string) error {
	return fmt.Errorf("field %q must be a %s", key, want)
}
