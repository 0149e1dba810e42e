// File: internal/job/model.go
package job

import (
	"time"

	"referme_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Job statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Referral request statuses.
const (
	ReferralStatusPending  = "pending"
	ReferralStatusAccepted = "accepted"
	ReferralStatusRejected = "rejected"
)

// Job is the database model for a posted job opening.
type Job struct {
	common.BaseModel
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Company      string                      `gorm:"size:255;not null" json:"company"`
	Location     string                      `gorm:"size:255;not null" json:"location"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Slug         string                      `gorm:"size:300;not null;uniqueIndex" json:"slug"`
	Status       string                      `gorm:"size:16;not null;default:open" json:"status"`
	PostedByID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"posted_by_id"`

	ReferralRequests []ReferralRequest `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Job model.
func (Job) TableName() string {
	return "jobs"
}

// ReferralRequest records one jobseeker asking the poster for a referral.
// The composite unique index makes a second request by the same jobseeker for
// the same job fail at the storage layer regardless of request interleaving.
type ReferralRequest struct {
	common.BaseModel
	JobID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_jobseeker" json:"job_id"`
	JobseekerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_jobseeker" json:"jobseeker_id"`
	JobseekerName  string    `gorm:"size:255;not null" json:"jobseeker_name"`
	JobseekerEmail string    `gorm:"size:255;not null" json:"jobseeker_email"`
	Status         string    `gorm:"size:16;not null;default:pending" json:"status"`
	RequestedAt    time.Time `gorm:"not null" json:"requested_at"`
}

// TableName specifies the table name for the ReferralRequest model.
func (ReferralRequest) TableName() string {
	return "referral_requests"
}

// CreateJobRequest is the payload for POST /jobs.
type CreateJobRequest struct {
	Title        string   `json:"title" binding:"required"`
	Company      string   `json:"company" binding:"required"`
	Location     string   `json:"location" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Requirements []string `json:"requirements"`
}

// UpdateReferralStatusRequest is the payload for PATCH referral-requests/:requestId.
type UpdateReferralStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}
