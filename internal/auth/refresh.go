package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/gorm"
)

const refreshTokenTTL = 30 * 24 * time.Hour

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// TokenPair is the session pair handed to clients: a short-lived access JWT
// and an opaque refresh token whose hash is stored server-side.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssueTokenPair mints an access token and a fresh refresh token for a user.
func IssueTokenPair(db *gorm.DB, user *models.User) (TokenPair, error) {
	access, err := GenerateJWT(user.ID, user.Email)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := issueRefreshToken(db, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ExchangeRefreshToken validates a presented refresh token, revokes it and
// returns the owning user together with a rotated pair.
func ExchangeRefreshToken(db *gorm.DB, raw string) (*models.User, TokenPair, error) {
	var record models.RefreshToken

	if err := db.Where("token_hash = ?", hashToken(raw)).First(&record).Error; err != nil {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}

	if !record.Usable(time.Now()) {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}

	var user models.User
	if err := db.First(&user, record.UserID).Error; err != nil {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}

	if !user.IsActive {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}

	if err := db.Model(&models.RefreshToken{}).Where("id = ?", record.ID).Update("revoked", true).Error; err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := IssueTokenPair(db, &user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	return &user, pair, nil
}

// RevokeRefreshToken revokes a single presented token, for logout.
func RevokeRefreshToken(db *gorm.DB, raw string) error {
	result := db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", hashToken(raw), false).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidRefreshToken
	}
	return nil
}

// RevokeAllRefreshTokens revokes every live token of a user, for bans.
func RevokeAllRefreshTokens(db *gorm.DB, userID uint) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func issueRefreshToken(db *gorm.DB, userID uint) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(buf)

	record := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := db.Create(&record).Error; err != nil {
		return "", err
	}

	return raw, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
