package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/accounts"
	"github.com/laboissim/laboissim/internal/auth"
	"github.com/laboissim/laboissim/internal/models"
	"github.com/laboissim/laboissim/internal/types"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EmailTokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := accounts.Create(db.DB, accounts.CreateParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})

	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrEmailTaken), errors.Is(err, accounts.ErrUsernameTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Failed to create user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	pair, err := auth.IssueTokenPair(db.DB, user)

	if err != nil {
		log.Printf("Failed to issue token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":    types.NewUserResponse(user, user.Profile),
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// TokenObtain exchanges username + password for a token pair.
func TokenObtain(ctx *gin.Context) {
	var req TokenRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	issueForCredentials(ctx, "username = ?", strings.TrimSpace(req.Username), req.Password)
}

// TokenObtainEmail exchanges email + password for a token pair.
func TokenObtainEmail(ctx *gin.Context) {
	var req EmailTokenRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	issueForCredentials(ctx, "email = ?", strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
}

func issueForCredentials(ctx *gin.Context, query, identifier, password string) {
	var user models.User

	err := db.DB.Where(query, identifier).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	pair, err := auth.IssueTokenPair(db.DB, &user)

	if err != nil {
		log.Printf("Failed to issue token pair: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	profile, err := accounts.GetProfile(db.DB, user.ID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":    types.NewUserResponse(&user, profile),
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// TokenRefresh rotates a refresh token: the presented token is revoked and
// a fresh pair is returned.
func TokenRefresh(ctx *gin.Context) {
	var req RefreshRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	_, pair, err := auth.ExchangeRefreshToken(db.DB, req.Refresh)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		log.Printf("Failed to rotate refresh token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh})
}

// Logout revokes the presented refresh token. The access token simply
// expires.
func Logout(ctx *gin.Context) {
	var req RefreshRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := auth.RevokeRefreshToken(db.DB, req.Refresh); err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Refresh token not found"})
			return
		}
		log.Printf("Failed to revoke refresh token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
