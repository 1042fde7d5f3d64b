package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/storage"
	"github.com/laboissim/laboissim/internal/types"
	"github.com/laboissim/laboissim/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const avatarMaxDimension = 512

type UpdateProfileRequest struct {
	Bio         *string         `json:"bio"`
	Phone       *string         `json:"phone"`
	Location    *string         `json:"location"`
	Website     *string         `json:"website"`
	SocialLinks json.RawMessage `json:"social_links"`
	Expertise   json.RawMessage `json:"expertise"`
	FirstName   *string         `json:"first_name"`
	LastName    *string         `json:"last_name"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Me returns the caller's account and profile.
func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	profile, err := accounts.GetProfile(db.DB, user.ID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(&user, profile)})
}

// GetOwnProfile returns the caller's profile.
func GetOwnProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := accounts.GetProfile(db.DB, currentUser.ID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewProfileResponse(profile))
}

// UpdateOwnProfile applies the provided profile fields. Role is not
// editable here; only staff can change roles.
func UpdateOwnProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := accounts.GetProfile(db.DB, currentUser.ID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := make(map[string]interface{})
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.SocialLinks != nil {
		updates["social_links"] = datatypes.JSON(req.SocialLinks)
	}
	if req.Expertise != nil {
		updates["expertise"] = datatypes.JSON(req.Expertise)
	}

	if len(updates) > 0 {
		if err := db.DB.Model(profile).Updates(updates).Error; err != nil {
			log.Printf("Failed to update profile: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	userUpdates := make(map[string]interface{})
	if req.FirstName != nil {
		userUpdates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		userUpdates["last_name"] = *req.LastName
	}
	if len(userUpdates) > 0 {
		if err := db.DB.Model(&models.User{}).Where("id = ?", currentUser.ID).Updates(userUpdates).Error; err != nil {
			log.Printf("Failed to update user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	profile, err = accounts.GetProfile(db.DB, currentUser.ID)
	if err != nil {
		log.Printf("Failed to reload profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewProfileResponse(profile))
}

// UploadAvatar accepts a multipart image, resizes it to fit 512x512 and
// stores it as JPEG, replacing any previous avatar blob.
func UploadAvatar(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a valid image"})
		return
	}

	img = imaging.Fit(img, avatarMaxDimension, avatarMaxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		log.Printf("Failed to encode avatar: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	key := storage.NewKey("avatars", "avatar.jpg")
	if err := blobStore.Put(ctx.Request.Context(), key, &buf, int64(buf.Len()), "image/jpeg"); err != nil {
		log.Printf("Failed to store avatar: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	profile, err := accounts.GetProfile(db.DB, currentUser.ID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	oldKey := profile.AvatarPath

	if err := db.DB.Model(profile).Update("avatar_path", key).Error; err != nil {
		log.Printf("Failed to update profile avatar: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if oldKey != "" {
		if err := blobStore.Delete(ctx.Request.Context(), oldKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to delete previous avatar blob %s: %v", oldKey, err)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"avatar_path": key})
}

// TeamMembers lists active accounts with their profiles. Public.
func TeamMembers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Preload("Profile").Where("is_active = ?", true).Order("id").Find(&users).Error; err != nil {
		log.Printf("Failed to list team members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]types.TeamMemberResponse, 0, len(users))

	for i := range users {
		profile := users[i].Profile
		if profile == nil {
			profile = &models.Profile{UserID: users[i].ID, Role: models.RoleMember}
		}
		response = append(response, types.TeamMemberResponse{
			UserResponse: types.NewUserResponse(&users[i], profile),
			Profile:      types.NewProfileResponse(profile),
		})
	}

	ctx.JSON(http.StatusOK, response)
}

// ChangeRole sets a user's role. Staff only.
func ChangeRole(ctx *gin.Context) {
	var req ChangeRoleRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := accounts.ChangeRole(db.DB, targetID, req.Role)

	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidRole):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid role value"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("Failed to change role: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// BanUser deactivates an account and revokes its refresh tokens.
func BanUser(ctx *gin.Context) {
	setUserActive(ctx, false)
}

// UnbanUser reactivates an account.
func UnbanUser(ctx *gin.Context) {
	setUserActive(ctx, true)
}

func setUserActive(ctx *gin.Context, active bool) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err = accounts.SetActive(db.DB, currentUser.ID, targetID, active)

	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrSelfAction):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot ban or unban your own account"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("Failed to update account state: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if active {
		ctx.JSON(http.StatusOK, gin.H{"message": "Account reactivated"})
	} else {
		ctx.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
	}
}

// DeleteUser removes an account. Staff only; self-deletion always fails.
func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err = accounts.Delete(db.DB, currentUser.ID, targetID)

	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrSelfAction):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete your own account"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("Failed to delete user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
