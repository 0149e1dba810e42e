// File: internal/profile/dto.go
package profile

import "time"

// EducationInput is one education entry in a profile submission.
type EducationInput struct {
	Degree      string     `json:"degree" binding:"required"`
	Institution string     `json:"institution"`
	Field       string     `json:"field"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// ExperienceInput is one work experience entry in a profile submission.
type ExperienceInput struct {
	Title       string     `json:"title" binding:"required"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `json:"description"`
}

// ProjectInput is one project entry in a profile submission.
type ProjectInput struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Technologies []string   `json:"technologies"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Link         string     `json:"link"`
}

// CertificationInput is one certification entry in a profile submission.
type CertificationInput struct {
	Name     string     `json:"name" binding:"required"`
	Issuer   string     `json:"issuer"`
	IssuedAt *time.Time `json:"issued_at"`
	Link     string     `json:"link"`
}

// CurrentEmploymentInput is the present-position snapshot in a profile submission.
type CurrentEmploymentInput struct {
	Company            string     `json:"company"`
	Role               string     `json:"role"`
	Location           string     `json:"location"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Description        string     `json:"description"`
	IsCurrentlyWorking bool       `json:"is_currently_working"`
}

// SocialLinksInput carries optional public profile links.
type SocialLinksInput struct {
	LinkedIn  string `json:"linkedin" binding:"omitempty,url"`
	GitHub    string `json:"github" binding:"omitempty,url"`
	Twitter   string `json:"twitter" binding:"omitempty,url"`
	Portfolio string `json:"portfolio" binding:"omitempty,url"`
}

// CompleteProfileRequest is the payload for POST /profile/complete.
// The first education entry must carry a degree.
type CompleteProfileRequest struct {
	Phone          string                  `json:"phone"`
	Location       string                  `json:"location"`
	Gender         string                  `json:"gender" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Bio            string                  `json:"bio"`
	Position       string                  `json:"position"`
	Skills         []string                `json:"skills"`
	Employment     *CurrentEmploymentInput `json:"current_employment"`
	SocialLinks    *SocialLinksInput       `json:"social_links"`
	Education      []EducationInput        `json:"education" binding:"required,min=1,dive"`
	Experience     []ExperienceInput       `json:"experience" binding:"omitempty,dive"`
	Projects       []ProjectInput          `json:"projects" binding:"omitempty,dive"`
	Certifications []CertificationInput    `json:"certifications" binding:"omitempty,dive"`
}

// VerifyCompanyEmailRequest is the payload for POST /profile/verify-company-email.
type VerifyCompanyEmailRequest struct {
	CompanyEmail string `json:"company_email" binding:"required,email"`
}

// ConfirmCompanyEmailRequest is the payload for POST /profile/verify-email-code.
type ConfirmCompanyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}
