// File: internal/user/model.go
package user

import (
	"referme_backend/internal/common"
	"referme_backend/internal/shared"

	"gorm.io/datatypes"
)

// Preferences holds a user's job search preferences, embedded on the users table.
type Preferences struct {
	JobTypes         datatypes.JSONSlice[string] `gorm:"column:pref_job_types" json:"job_types"`
	Industries       datatypes.JSONSlice[string] `gorm:"column:pref_industries" json:"industries"`
	Locations        datatypes.JSONSlice[string] `gorm:"column:pref_locations" json:"locations"`
	RemotePreference string                      `gorm:"column:pref_remote;size:32" json:"remote_preference"`
	SalaryMin        int                         `gorm:"column:pref_salary_min" json:"salary_min"`
	SalaryMax        int                         `gorm:"column:pref_salary_max" json:"salary_max"`
	SalaryCurrency   string                      `gorm:"column:pref_salary_currency;size:8" json:"salary_currency"`
}

// User is the database model for a platform account. The password hash never
// leaves the server.
type User struct {
	common.BaseModel
	Name                  string      `gorm:"size:255;not null" json:"name"`
	Email                 string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash          string      `gorm:"size:255;not null" json:"-"`
	Role                  string      `gorm:"size:32;not null" json:"role"`
	IsVerified            bool        `gorm:"not null;default:false" json:"is_verified"`
	VerifiedCompanyDomain string      `gorm:"size:255" json:"verified_company_domain,omitempty"`
	IsProfileCompleted    bool        `gorm:"not null;default:false" json:"is_profile_completed"`
	Preferences           Preferences `gorm:"embedded" json:"preferences"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// ToSharedUser converts the database model to the cross-package DTO.
func (u *User) ToSharedUser() *shared.User {
	return &shared.User{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Role:                  u.Role,
		IsVerified:            u.IsVerified,
		VerifiedCompanyDomain: u.VerifiedCompanyDomain,
		IsProfileCompleted:    u.IsProfileCompleted,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

// UpdatePreferencesRequest is the payload for PUT /profile/preferences.
type UpdatePreferencesRequest struct {
	JobTypes         []string `json:"job_types"`
	Industries       []string `json:"industries"`
	Locations        []string `json:"locations"`
	RemotePreference string   `json:"remote_preference" binding:"omitempty,oneof=remote hybrid onsite any"`
	SalaryMin        int      `json:"salary_min" binding:"omitempty,min=0"`
	SalaryMax        int      `json:"salary_max" binding:"omitempty,min=0,gtefield=SalaryMin"`
	SalaryCurrency   string   `json:"salary_currency" binding:"omitempty,len=3"`
}
