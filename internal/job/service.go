// File: internal/job/service.go
package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"referme_backend/internal/common"
	"referme_backend/internal/config"
	"referme_backend/internal/email"
	platformES "referme_backend/internal/platform/elasticsearch"
	"referme_backend/internal/profile"
	"referme_backend/internal/shared"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the business operations on jobs and referral requests.
type Service interface {
	Create(ctx context.Context, posterID uuid.UUID, req CreateJobRequest) (*Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context, query string, page, pageSize int) ([]Job, *common.Pagination, error)
	RequestReferral(ctx context.Context, jobID, jobseekerID uuid.UUID) (*ReferralRequest, error)
	ListReferralRequests(ctx context.Context, jobID, callerID uuid.UUID) ([]ReferralRequest, error)
	UpdateReferralStatus(ctx context.Context, jobID, requestID, callerID uuid.UUID, status string) (*ReferralRequest, error)
}

type serviceImpl struct {
	repo        Repository
	profileRepo profile.Repository
	userService shared.Service
	sender      email.Sender
	esClient    *platformES.ESClientWrapper
	cfg         *config.Config
	logger      *zap.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new job service. esClient may be nil, in which case
// search and indexing run against the database only.
func NewService(
	repo Repository,
	profileRepo profile.Repository,
	userService shared.Service,
	sender email.Sender,
	esClient *platformES.ESClientWrapper,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &serviceImpl{
		repo:        repo,
		profileRepo: profileRepo,
		userService: userService,
		sender:      sender,
		esClient:    esClient,
		cfg:         cfg,
		logger:      logger.Named("job_service"),
	}
}

// Create posts a new job owned by the caller and indexes it best-effort.
func (s *serviceImpl) Create(ctx context.Context, posterID uuid.UUID, req CreateJobRequest) (*Job, error) {
	jobSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	j := &Job{
		Title:        strings.TrimSpace(req.Title),
		Company:      strings.TrimSpace(req.Company),
		Location:     strings.TrimSpace(req.Location),
		Description:  req.Description,
		Requirements: req.Requirements,
		Slug:         jobSlug,
		Status:       StatusOpen,
		PostedByID:   posterID,
	}

	if err := s.repo.Create(ctx, j); err != nil {
		s.logger.Error("Failed to create job", zap.Error(err), zap.String("posterID", posterID.String()))
		return nil, err
	}

	s.indexJob(ctx, j)

	s.logger.Info("Job created",
		zap.String("jobID", j.ID.String()),
		zap.String("slug", j.Slug))
	return j, nil
}

// GetByID retrieves a single job.
func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns jobs newest first. When a query is given and Elasticsearch is
// configured the search runs there; otherwise the database handles it.
func (s *serviceImpl) List(ctx context.Context, query string, page, pageSize int) ([]Job, *common.Pagination, error) {
	if q := strings.TrimSpace(query); q != "" && s.esClient != nil {
		jobs, total, err := s.searchES(ctx, q, page, pageSize)
		if err == nil {
			return jobs, common.NewPagination(total, page, pageSize), nil
		}
		s.logger.Warn("Elasticsearch search failed, falling back to database", zap.Error(err))
	}

	jobs, total, err := s.repo.List(ctx, query, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return jobs, common.NewPagination(total, page, pageSize), nil
}

// RequestReferral records a referral request from a jobseeker and notifies the
// poster by email. The notification is fire-and-forget; its failure never
// fails the request.
func (s *serviceImpl) RequestReferral(ctx context.Context, jobID, jobseekerID uuid.UUID) (*ReferralRequest, error) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if j.PostedByID == jobseekerID {
		return nil, common.ErrBadRequest.WithDetails("You cannot request a referral for your own job.")
	}

	// A completed profile is required before asking for referrals.
	if _, err := s.profileRepo.FindByUserID(ctx, jobseekerID); err != nil {
		return nil, err
	}

	jobseeker, err := s.userService.GetUserByID(ctx, jobseekerID)
	if err != nil {
		return nil, err
	}

	poster, err := s.userService.GetUserByID(ctx, j.PostedByID)
	if err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique index remains authoritative under races.
	exists, err := s.repo.HasReferralRequest(ctx, jobID, jobseekerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrConflict.WithDetails("You have already requested a referral for this job.")
	}

	rr := &ReferralRequest{
		JobID:          jobID,
		JobseekerID:    jobseekerID,
		JobseekerName:  jobseeker.Name,
		JobseekerEmail: jobseeker.Email,
		Status:         ReferralStatusPending,
		RequestedAt:    time.Now(),
	}
	if err := s.repo.CreateReferralRequest(ctx, rr); err != nil {
		return nil, err
	}

	if err := s.sender.SendReferralRequestNotice(ctx, poster.Email, poster.Name, jobseeker.Name, j.Title, j.Company); err != nil {
		s.logger.Warn("Referral notification email failed",
			zap.Error(err),
			zap.String("jobID", jobID.String()),
			zap.String("posterEmail", poster.Email))
	}

	s.logger.Info("Referral requested",
		zap.String("jobID", jobID.String()),
		zap.String("jobseekerID", jobseekerID.String()))
	return rr, nil
}

// ListReferralRequests returns the referral requests for a job. Poster only.
func (s *serviceImpl) ListReferralRequests(ctx context.Context, jobID, callerID uuid.UUID) ([]ReferralRequest, error) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.PostedByID != callerID {
		return nil, common.ErrForbidden.WithDetails("Only the job poster can view its referral requests.")
	}
	return s.repo.ListReferralRequests(ctx, jobID)
}

// UpdateReferralStatus lets the poster accept or reject a referral request.
func (s *serviceImpl) UpdateReferralStatus(ctx context.Context, jobID, requestID, callerID uuid.UUID, status string) (*ReferralRequest, error) {
	j, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.PostedByID != callerID {
		return nil, common.ErrForbidden.WithDetails("Only the job poster can update its referral requests.")
	}

	rr, err := s.repo.FindReferralRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rr.JobID != jobID {
		return nil, common.ErrNotFound.WithDetails("Referral request not found.")
	}

	if err := s.repo.UpdateReferralRequestStatus(ctx, requestID, status); err != nil {
		s.logger.Error("Failed to update referral status", zap.Error(err), zap.String("requestID", requestID.String()))
		return nil, err
	}
	rr.Status = status

	s.logger.Info("Referral request updated",
		zap.String("requestID", requestID.String()),
		zap.String("status", status))
	return rr, nil
}

// uniqueSlug builds a URL slug from the title, suffixed with a short id when taken.
func (s *serviceImpl) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "job"
	}
	taken, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

// indexJob writes the job document to Elasticsearch, best-effort.
func (s *serviceImpl) indexJob(ctx context.Context, j *Job) {
	if s.esClient == nil {
		return
	}

	doc := map[string]interface{}{
		"title":        j.Title,
		"company":      j.Company,
		"location":     j.Location,
		"description":  j.Description,
		"requirements": []string(j.Requirements),
		"slug":         j.Slug,
		"status":       j.Status,
		"posted_by_id": j.PostedByID.String(),
		"created_at":   j.CreatedAt,
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		s.logger.Warn("Failed to marshal job for indexing", zap.Error(err), zap.String("jobID", j.ID.String()))
		return
	}

	req := esapi.IndexRequest{
		Index:      platformES.JobsIndexName,
		DocumentID: j.ID.String(),
		Body:       strings.NewReader(string(docBytes)),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Warn("Failed to index job", zap.Error(err), zap.String("jobID", j.ID.String()))
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		s.logger.Warn("Elasticsearch rejected job document",
			zap.String("status", res.Status()),
			zap.String("jobID", j.ID.String()))
	}
}

// searchES runs a multi_match query and resolves the hits against the database
// so responses always reflect stored rows.
func (s *serviceImpl) searchES(ctx context.Context, query string, page, pageSize int) ([]Job, int64, error) {
	body := map[string]interface{}{
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "company^2", "location", "description", "requirements"},
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]string{"order": "desc"}},
			{"created_at": map[string]string{"order": "desc"}},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(platformES.JobsIndexName),
		s.esClient.Search.WithBody(strings.NewReader(string(bodyBytes))),
		s.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("elasticsearch search error: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	jobs := make([]Job, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		j, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// Index is ahead of or behind the database; skip strays.
				continue
			}
			return nil, 0, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, parsed.Hits.Total.Value, nil
}
