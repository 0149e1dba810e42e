// File: internal/shared/user_response.go
package shared

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Role                  string    `json:"role"`
	IsVerified            bool      `json:"is_verified"`
	VerifiedCompanyDomain string    `json:"verified_company_domain,omitempty"`
	IsProfileCompleted    bool      `json:"is_profile_completed"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(svUser *User) UserResponse {
	return UserResponse{
		ID:                    svUser.ID,
		Name:                  svUser.Name,
		Email:                 svUser.Email,
		Role:                  svUser.Role,
		IsVerified:            svUser.IsVerified,
		VerifiedCompanyDomain: svUser.VerifiedCompanyDomain,
		IsProfileCompleted:    svUser.IsProfileCompleted,
		CreatedAt:             svUser.CreatedAt,
		UpdatedAt:             svUser.UpdatedAt,
	}
}
