// Package accounts implements the identity lifecycle: account creation
// always creates the profile in the same transaction, and role changes are
// applied atomically across the user and profile rows.
package accounts

import (
	"errors"
	"strings"

	"github.com/laboissim/laboissim/internal/auth"
	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
	ErrInvalidRole   = errors.New("invalid role")
	ErrSelfAction    = errors.New("cannot perform this action on your own account")
)

// CreateParams describes a new account. Password may be empty for
// OAuth-provisioned accounts, which then have no usable password.
type CreateParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Create provisions a user and their profile in one transaction. The email
// is lowercased so the password and OAuth signup paths share one namespace.
func Create(db *gorm.DB, params CreateParams) (*models.User, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Username = strings.TrimSpace(params.Username)

	if params.Role == "" {
		params.Role = models.RoleMember
	}
	if !models.ValidRole(params.Role) {
		return nil, ErrInvalidRole
	}

	var existing models.User

	err := db.Where("email = ?", params.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("username = ?", params.Username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var passwordHash string
	if params.Password != "" {
		passwordHash, err = auth.HashPassword(params.Password)
		if err != nil {
			return nil, err
		}
	}

	user := models.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		IsActive:     true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{UserID: user.ID, Role: params.Role}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		user.Profile = &profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetProfile loads a user's profile, creating a default member profile if
// the row is missing. Healing keeps pre-existing accounts usable.
func GetProfile(db *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile

	err := db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserID: userID, Role: models.RoleMember}
		err = db.Create(&profile).Error
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// ChangeRole sets a user's role. The profile write and the user row touch
// run in one transaction so both succeed or both roll back.
func ChangeRole(db *gorm.DB, userID uint, role string) error {
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		profile, err := GetProfile(tx, user.ID)
		if err != nil {
			return err
		}

		if err := tx.Model(profile).Update("role", role).Error; err != nil {
			return err
		}

		// Touch the user row so both sides of the identity carry the
		// change's timestamp.
		return tx.Model(&user).Update("updated_at", tx.NowFunc()).Error
	})
}

// SetActive bans (false) or unbans (true) a user. callerID guards against
// self-service bans. Banning revokes every live refresh token.
func SetActive(db *gorm.DB, callerID, userID uint, active bool) error {
	if callerID == userID {
		return ErrSelfAction
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		if err := tx.Model(&user).Update("is_active", active).Error; err != nil {
			return err
		}

		if !active {
			return auth.RevokeAllRefreshTokens(tx, user.ID)
		}
		return nil
	})
}

// Delete removes a user and, via cascade, everything they own. A caller may
// never delete their own account.
func Delete(db *gorm.DB, callerID, userID uint) error {
	if callerID == userID {
		return ErrSelfAction
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return err
	}

	return db.Unscoped().Delete(&user).Error
}
