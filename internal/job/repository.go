// File: internal/job/repository.go
package job

import (
	"context"
	"errors"
	"strings"

	"referme_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for job and referral request data operations.
type Repository interface {
	Create(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindBySlug(ctx context.Context, slug string) (*Job, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, query string, page, pageSize int) ([]Job, int64, error)
	ListBatch(ctx context.Context, offset, limit int) ([]Job, error)

	CreateReferralRequest(ctx context.Context, rr *ReferralRequest) error
	HasReferralRequest(ctx context.Context, jobID, jobseekerID uuid.UUID) (bool, error)
	ListReferralRequests(ctx context.Context, jobID uuid.UUID) ([]ReferralRequest, error)
	FindReferralRequestByID(ctx context.Context, id uuid.UUID) (*ReferralRequest, error)
	UpdateReferralRequestStatus(ctx context.Context, id uuid.UUID, status string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM job repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new job record.
func (r *gormRepository) Create(ctx context.Context, j *Job) error {
	err := r.db.WithContext(ctx).Create(j).Error
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A job with this slug already exists.")
		}
		return err
	}
	return nil
}

// FindByID retrieves a job by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job not found.")
		}
		return nil, err
	}
	return &j, nil
}

// FindBySlug retrieves a job by its slug.
func (r *gormRepository) FindBySlug(ctx context.Context, slug string) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Job not found.")
		}
		return nil, err
	}
	return &j, nil
}

// SlugExists reports whether a job slug is already taken.
func (r *gormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Job{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// List returns jobs newest first, optionally filtered by a case-insensitive
// match on title, company, location or description. This is the SQL fallback
// for when Elasticsearch is not configured.
func (r *gormRepository) List(ctx context.Context, query string, page, pageSize int) ([]Job, int64, error) {
	var jobs []Job
	var total int64

	tx := r.db.WithContext(ctx).Model(&Job{})
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(location) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListBatch pages through all jobs in insertion order. Used by the ES sync command.
func (r *gormRepository) ListBatch(ctx context.Context, offset, limit int) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// CreateReferralRequest inserts a referral request. A duplicate for the same
// (job, jobseeker) pair surfaces as a conflict via the composite unique index.
func (r *gormRepository) CreateReferralRequest(ctx context.Context, rr *ReferralRequest) error {
	err := r.db.WithContext(ctx).Create(rr).Error
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("You have already requested a referral for this job.")
		}
		return err
	}
	return nil
}

// HasReferralRequest reports whether the jobseeker already requested a referral for the job.
func (r *gormRepository) HasReferralRequest(ctx context.Context, jobID, jobseekerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReferralRequest{}).
		Where("job_id = ? AND jobseeker_id = ?", jobID, jobseekerID).
		Count(&count).Error
	return count > 0, err
}

// ListReferralRequests returns all referral requests for a job, newest first.
func (r *gormRepository) ListReferralRequests(ctx context.Context, jobID uuid.UUID) ([]ReferralRequest, error) {
	var requests []ReferralRequest
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("requested_at DESC").
		Find(&requests).Error
	return requests, err
}

// FindReferralRequestByID retrieves a single referral request.
func (r *gormRepository) FindReferralRequestByID(ctx context.Context, id uuid.UUID) (*ReferralRequest, error) {
	var rr ReferralRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Referral request not found.")
		}
		return nil, err
	}
	return &rr, nil
}

// UpdateReferralRequestStatus sets the status of a referral request.
func (r *gormRepository) UpdateReferralRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&ReferralRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
