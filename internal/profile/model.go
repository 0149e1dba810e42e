// File: internal/profile/model.go
package profile

import (
	"time"

	"referme_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CompanyEmail holds the work-email verification state, embedded on the profiles table.
type CompanyEmail struct {
	Email                   string     `gorm:"column:company_email;size:255" json:"email,omitempty"`
	IsVerified              bool       `gorm:"column:company_email_verified;not null;default:false" json:"is_verified"`
	VerificationToken       string     `gorm:"column:company_email_token;size:128;index" json:"-"`
	VerificationTokenExpires *time.Time `gorm:"column:company_email_token_expires" json:"-"`
}

// SocialLinks holds optional public profile links, embedded on the profiles table.
type SocialLinks struct {
	LinkedIn  string `gorm:"column:social_linkedin;size:512" json:"linkedin,omitempty"`
	GitHub    string `gorm:"column:social_github;size:512" json:"github,omitempty"`
	Twitter   string `gorm:"column:social_twitter;size:512" json:"twitter,omitempty"`
	Portfolio string `gorm:"column:social_portfolio;size:512" json:"portfolio,omitempty"`
}

// CurrentEmployment is a snapshot of the user's present position.
type CurrentEmployment struct {
	Company            string     `gorm:"column:current_company;size:255" json:"company,omitempty"`
	Role               string     `gorm:"column:current_role;size:255" json:"role,omitempty"`
	Location           string     `gorm:"column:current_location;size:255" json:"location,omitempty"`
	StartDate          *time.Time `gorm:"column:current_start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `gorm:"column:current_end_date" json:"end_date,omitempty"`
	Description        string     `gorm:"column:current_description;type:text" json:"description,omitempty"`
	IsCurrentlyWorking bool       `gorm:"column:is_currently_working;not null;default:false" json:"is_currently_working"`
}

// Profile is the database model for a jobseeker or employee profile.
// Exactly one profile exists per user, enforced by the unique index on UserID.
type Profile struct {
	common.BaseModel
	UserID       uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Phone        string                      `gorm:"size:32" json:"phone,omitempty"`
	Location     string                      `gorm:"size:255" json:"location,omitempty"`
	Gender       string                      `gorm:"size:32" json:"gender,omitempty"`
	Bio          string                      `gorm:"type:text" json:"bio,omitempty"`
	Position     string                      `gorm:"size:255" json:"position,omitempty"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	ResumeURL    string                      `gorm:"size:512" json:"resume_url,omitempty"`
	Employment   CurrentEmployment           `gorm:"embedded" json:"current_employment"`
	CompanyEmail CompanyEmail                `gorm:"embedded" json:"company_email"`
	SocialLinks  SocialLinks                 `gorm:"embedded" json:"social_links"`

	Educations     []Education     `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"educations"`
	Experiences    []Experience    `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"experiences"`
	Projects       []Project       `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"projects"`
	Certifications []Certification `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"certifications"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// Education is an ordered education entry belonging to a profile.
type Education struct {
	common.BaseModel
	ProfileID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	Degree      string     `gorm:"size:255;not null" json:"degree"`
	Institution string     `gorm:"size:255" json:"institution,omitempty"`
	Field       string     `gorm:"size:255" json:"field,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	SortOrder   int        `gorm:"not null;default:0" json:"sort_order"`
}

func (Education) TableName() string {
	return "profile_educations"
}

// Experience is an ordered work experience entry belonging to a profile.
type Experience struct {
	common.BaseModel
	ProfileID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Company     string     `gorm:"size:255" json:"company,omitempty"`
	Location    string     `gorm:"size:255" json:"location,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	SortOrder   int        `gorm:"not null;default:0" json:"sort_order"`
}

func (Experience) TableName() string {
	return "profile_experiences"
}

// Project is a personal or professional project entry belonging to a profile.
type Project struct {
	common.BaseModel
	ProfileID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Description  string                      `gorm:"type:text" json:"description,omitempty"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	StartDate    *time.Time                  `json:"start_date,omitempty"`
	EndDate      *time.Time                  `json:"end_date,omitempty"`
	Link         string                      `gorm:"size:512" json:"link,omitempty"`
	SortOrder    int                         `gorm:"not null;default:0" json:"sort_order"`
}

func (Project) TableName() string {
	return "profile_projects"
}

// Certification is a certification entry belonging to a profile.
type Certification struct {
	common.BaseModel
	ProfileID uuid.UUID  `gorm:"type:uuid;not null;index" json:"profile_id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Issuer    string     `gorm:"size:255" json:"issuer,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	Link      string     `gorm:"size:512" json:"link,omitempty"`
	SortOrder int        `gorm:"not null;default:0" json:"sort_order"`
}

func (Certification) TableName() string {
	return "profile_certifications"
}
