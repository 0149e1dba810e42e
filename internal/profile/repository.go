// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"referme_backend/internal/common"
	"referme_backend/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	FindByVerificationToken(ctx context.Context, token string) (*Profile, error)
	Complete(ctx context.Context, prof *Profile) error
	Update(ctx context.Context, prof *Profile) error
	AddEducation(ctx context.Context, edu *Education) error
	AddExperience(ctx context.Context, exp *Experience) error
	MarkCompanyEmailVerified(ctx context.Context, prof *Profile, domain string) error
	ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Educations", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Experiences", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Certifications", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

// FindByUserID retrieves a profile with all child collections by owner ID.
func (r *gormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var prof Profile
	err := r.preloaded(ctx).Where("user_id = ?", userID).First(&prof).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found. Complete your profile first.")
		}
		return nil, err
	}
	return &prof, nil
}

// FindByVerificationToken retrieves the profile holding a pending verification token.
func (r *gormRepository) FindByVerificationToken(ctx context.Context, token string) (*Profile, error) {
	var prof Profile
	err := r.db.WithContext(ctx).Where("company_email_token = ?", token).First(&prof).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Invalid or expired verification token.")
		}
		return nil, err
	}
	return &prof, nil
}

// Complete upserts the profile and flips the owner's completed flag in one transaction.
// Child collections are replaced wholesale on resubmission.
func (r *gormRepository) Complete(ctx context.Context, prof *Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Profile
		err := tx.Where("user_id = ?", prof.UserID).First(&existing).Error
		switch {
		case err == nil:
			prof.ID = existing.ID
			prof.CreatedAt = existing.CreatedAt
			// Keep prior verification state unless the caller supplied one.
			if prof.CompanyEmail.Email == "" {
				prof.CompanyEmail = existing.CompanyEmail
			}
			if prof.ResumeURL == "" {
				prof.ResumeURL = existing.ResumeURL
			}
			for _, child := range []any{&Education{}, &Experience{}, &Project{}, &Certification{}} {
				if err := tx.Where("profile_id = ?", existing.ID).Delete(child).Error; err != nil {
					return err
				}
			}
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(prof).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(prof).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) ||
					strings.Contains(err.Error(), "unique constraint") ||
					strings.Contains(err.Error(), "UNIQUE constraint") {
					return common.ErrConflict.WithDetails("A profile already exists for this user.")
				}
				return err
			}
		default:
			return err
		}

		return tx.Model(&user.User{}).
			Where("id = ?", prof.UserID).
			Update("is_profile_completed", true).Error
	})
}

// Update saves profile scalar fields (tokens, resume URL, company email state).
func (r *gormRepository) Update(ctx context.Context, prof *Profile) error {
	return r.db.WithContext(ctx).Omit("Educations", "Experiences", "Projects", "Certifications").Save(prof).Error
}

// AddEducation appends an education entry to an existing profile.
func (r *gormRepository) AddEducation(ctx context.Context, edu *Education) error {
	return r.db.WithContext(ctx).Create(edu).Error
}

// AddExperience appends a work experience entry to an existing profile.
func (r *gormRepository) AddExperience(ctx context.Context, exp *Experience) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

// MarkCompanyEmailVerified clears the token, flags the company email verified and
// stamps the owning user as verified with the given domain, atomically.
func (r *gormRepository) MarkCompanyEmailVerified(ctx context.Context, prof *Profile, domain string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"company_email_verified":      true,
			"company_email_token":         "",
			"company_email_token_expires": nil,
		}
		if err := tx.Model(&Profile{}).Where("id = ?", prof.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&user.User{}).
			Where("id = ?", prof.UserID).
			Updates(map[string]interface{}{
				"is_verified":             true,
				"verified_company_domain": domain,
			}).Error
	})
}

// ClearExpiredVerificationTokens wipes verification tokens whose expiry has passed.
// Returns the number of profiles touched.
func (r *gormRepository) ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Profile{}).
		Where("company_email_token <> '' AND company_email_token_expires IS NOT NULL AND company_email_token_expires < ?", now).
		Updates(map[string]interface{}{
			"company_email_token":         "",
			"company_email_token_expires": nil,
		})
	return res.RowsAffected, res.Error
}
