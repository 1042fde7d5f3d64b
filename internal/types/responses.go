package types

import (
	"encoding/json"

	"github.com/laboissim/laboissim/internal/models"
)

// UserResponse mirrors the account fields exposed by the API. The staff and
// superuser flags are computed from the profile role here so the stored row
// can never drift from the role.
type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	Role        string `json:"role"`
}

type ProfileResponse struct {
	Role        string          `json:"role"`
	Bio         string          `json:"bio"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Website     string          `json:"website"`
	AvatarPath  string          `json:"avatar_path"`
	SocialLinks json.RawMessage `json:"social_links"`
	Expertise   json.RawMessage `json:"expertise"`
}

type TeamMemberResponse struct {
	UserResponse
	Profile ProfileResponse `json:"profile"`
}

// NewUserResponse builds the response for a user and their profile. A nil
// profile serializes as role member with no staff rights.
func NewUserResponse(user *models.User, profile *models.Profile) UserResponse {
	role := models.RoleMember
	if profile != nil {
		role = profile.Role
	}
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsActive:    user.IsActive,
		IsStaff:     role == models.RoleAdmin,
		IsSuperuser: false,
		Role:        role,
	}
}

func NewProfileResponse(profile *models.Profile) ProfileResponse {
	resp := ProfileResponse{
		Role:       profile.Role,
		Bio:        profile.Bio,
		Phone:      profile.Phone,
		Location:   profile.Location,
		Website:    profile.Website,
		AvatarPath: profile.AvatarPath,
	}
	if len(profile.SocialLinks) > 0 {
		resp.SocialLinks = json.RawMessage(profile.SocialLinks)
	}
	if len(profile.Expertise) > 0 {
		resp.Expertise = json.RawMessage(profile.Expertise)
	}
	return resp
}
