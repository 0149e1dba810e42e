// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"referme_backend/internal/common"
	"referme_backend/internal/config"
	"referme_backend/internal/email"
	"referme_backend/internal/platform/crypto"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business operations on profiles.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Complete(ctx context.Context, userID uuid.UUID, req CompleteProfileRequest) (*Profile, error)
	AddExperience(ctx context.Context, userID uuid.UUID, input ExperienceInput) (*Experience, error)
	AddEducation(ctx context.Context, userID uuid.UUID, input EducationInput) (*Education, error)
	StartCompanyEmailVerification(ctx context.Context, userID uuid.UUID, companyEmail string) error
	ConfirmCompanyEmail(ctx context.Context, token string) (*Profile, error)
	SetResumeURL(ctx context.Context, userID uuid.UUID, resumeURL string) (*Profile, error)
	ClearExpiredVerificationTokens(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo   Repository
	sender email.Sender
	cfg    *config.Config
	logger *zap.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new profile service.
func NewService(repo Repository, sender email.Sender, cfg *config.Config, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:   repo,
		sender: sender,
		cfg:    cfg,
		logger: logger.Named("profile_service"),
	}
}

// GetByUserID returns the caller's profile with all child collections.
func (s *serviceImpl) GetByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Complete upserts the caller's profile from the submission and marks the user
// profile-completed. The first education entry must carry a degree; that is
// checked before anything is written.
func (s *serviceImpl) Complete(ctx context.Context, userID uuid.UUID, req CompleteProfileRequest) (*Profile, error) {
	if len(req.Education) == 0 || strings.TrimSpace(req.Education[0].Degree) == "" {
		return nil, common.ErrBadRequest.WithDetails("Education is required and the first entry must include a degree.")
	}

	prof := &Profile{
		UserID:   userID,
		Phone:    req.Phone,
		Location: req.Location,
		Gender:   req.Gender,
		Bio:      req.Bio,
		Position: req.Position,
		Skills:   req.Skills,
	}

	if req.Employment != nil {
		prof.Employment = CurrentEmployment{
			Company:            req.Employment.Company,
			Role:               req.Employment.Role,
			Location:           req.Employment.Location,
			StartDate:          req.Employment.StartDate,
			EndDate:            req.Employment.EndDate,
			Description:        req.Employment.Description,
			IsCurrentlyWorking: req.Employment.IsCurrentlyWorking,
		}
	}
	if req.SocialLinks != nil {
		prof.SocialLinks = SocialLinks{
			LinkedIn:  req.SocialLinks.LinkedIn,
			GitHub:    req.SocialLinks.GitHub,
			Twitter:   req.SocialLinks.Twitter,
			Portfolio: req.SocialLinks.Portfolio,
		}
	}

	for i, e := range req.Education {
		prof.Educations = append(prof.Educations, Education{
			Degree:      strings.TrimSpace(e.Degree),
			Institution: e.Institution,
			Field:       e.Field,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			SortOrder:   i,
		})
	}
	for i, e := range req.Experience {
		prof.Experiences = append(prof.Experiences, Experience{
			Title:       strings.TrimSpace(e.Title),
			Company:     e.Company,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Description: e.Description,
			SortOrder:   i,
		})
	}
	for i, p := range req.Projects {
		prof.Projects = append(prof.Projects, Project{
			Title:        strings.TrimSpace(p.Title),
			Description:  p.Description,
			Technologies: p.Technologies,
			StartDate:    p.StartDate,
			EndDate:      p.EndDate,
			Link:         p.Link,
			SortOrder:    i,
		})
	}
	for i, c := range req.Certifications {
		prof.Certifications = append(prof.Certifications, Certification{
			Name:      strings.TrimSpace(c.Name),
			Issuer:    c.Issuer,
			IssuedAt:  c.IssuedAt,
			Link:      c.Link,
			SortOrder: i,
		})
	}

	if err := s.repo.Complete(ctx, prof); err != nil {
		s.logger.Error("Failed to complete profile", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	s.logger.Info("Profile completed", zap.String("userID", userID.String()))
	return s.repo.FindByUserID(ctx, userID)
}

// AddExperience appends a work experience entry. Requires an existing profile.
func (s *serviceImpl) AddExperience(ctx context.Context, userID uuid.UUID, input ExperienceInput) (*Experience, error) {
	prof, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp := &Experience{
		ProfileID:   prof.ID,
		Title:       strings.TrimSpace(input.Title),
		Company:     input.Company,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
		SortOrder:   len(prof.Experiences),
	}
	if err := s.repo.AddExperience(ctx, exp); err != nil {
		s.logger.Error("Failed to add experience", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	return exp, nil
}

// AddEducation appends an education entry. Requires an existing profile.
func (s *serviceImpl) AddEducation(ctx context.Context, userID uuid.UUID, input EducationInput) (*Education, error) {
	prof, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu := &Education{
		ProfileID:   prof.ID,
		Degree:      strings.TrimSpace(input.Degree),
		Institution: input.Institution,
		Field:       input.Field,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		SortOrder:   len(prof.Educations),
	}
	if err := s.repo.AddEducation(ctx, edu); err != nil {
		s.logger.Error("Failed to add education", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	return edu, nil
}

// StartCompanyEmailVerification stores a fresh verification token on the
// caller's profile and mails the verification link. A mail relay failure is
// surfaced to the caller on this path.
func (s *serviceImpl) StartCompanyEmailVerification(ctx context.Context, userID uuid.UUID, companyEmail string) error {
	companyEmail = strings.ToLower(strings.TrimSpace(companyEmail))

	prof, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		// No profile yet. Verification may start before completion.
		prof = &Profile{UserID: userID}
	}

	if prof.CompanyEmail.IsVerified && prof.CompanyEmail.Email == companyEmail {
		return common.ErrConflict.WithDetails("This company email is already verified.")
	}

	token, err := crypto.GenerateHexToken(32)
	if err != nil {
		s.logger.Error("Failed to generate verification token", zap.Error(err))
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	expires := time.Now().Add(s.cfg.VerificationTokenLifespan)
	prof.CompanyEmail = CompanyEmail{
		Email:                    companyEmail,
		IsVerified:               false,
		VerificationToken:        token,
		VerificationTokenExpires: &expires,
	}

	if err := s.repo.Update(ctx, prof); err != nil {
		s.logger.Error("Failed to persist verification token", zap.Error(err), zap.String("userID", userID.String()))
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.cfg.FrontendBaseURL, "/"), token)
	if err := s.sender.SendCompanyEmailVerification(ctx, companyEmail, link); err != nil {
		return common.ErrInternalServer.WithDetails("Could not send the verification email. Please try again later.")
	}

	s.logger.Info("Company email verification started",
		zap.String("userID", userID.String()),
		zap.String("companyEmail", companyEmail))
	return nil
}

// ConfirmCompanyEmail validates a verification token, marks the company email
// verified and stamps the owning user with the verified company domain.
func (s *serviceImpl) ConfirmCompanyEmail(ctx context.Context, token string) (*Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ErrBadRequest.WithDetails("Verification token is required.")
	}

	prof, err := s.repo.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if prof.CompanyEmail.VerificationTokenExpires == nil ||
		time.Now().After(*prof.CompanyEmail.VerificationTokenExpires) {
		return nil, common.ErrBadRequest.WithDetails("Verification token has expired. Request a new one.")
	}

	domain := companyEmailDomain(prof.CompanyEmail.Email)
	if err := s.repo.MarkCompanyEmailVerified(ctx, prof, domain); err != nil {
		s.logger.Error("Failed to mark company email verified", zap.Error(err), zap.String("profileID", prof.ID.String()))
		return nil, err
	}

	s.logger.Info("Company email verified",
		zap.String("userID", prof.UserID.String()),
		zap.String("domain", domain))
	return s.repo.FindByUserID(ctx, prof.UserID)
}

// SetResumeURL persists the stored resume location on the caller's profile.
func (s *serviceImpl) SetResumeURL(ctx context.Context, userID uuid.UUID, resumeURL string) (*Profile, error) {
	prof, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	prof.ResumeURL = resumeURL
	if err := s.repo.Update(ctx, prof); err != nil {
		s.logger.Error("Failed to persist resume URL", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	return prof, nil
}

// ClearExpiredVerificationTokens sweeps stale tokens. Used by the cron job.
func (s *serviceImpl) ClearExpiredVerificationTokens(ctx context.Context) (int64, error) {
	return s.repo.ClearExpiredVerificationTokens(ctx, time.Now())
}

func companyEmailDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}
