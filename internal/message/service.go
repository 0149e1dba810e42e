// File: internal/message/service.go
package message

import (
	"context"

	"referme_backend/internal/common"
	"referme_backend/internal/job"
	"referme_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the business operations on messages.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*Message, error)
	SendJobMessage(ctx context.Context, senderID, jobID uuid.UUID, content string) (*Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error)
	ListConversation(ctx context.Context, userID, otherUserID uuid.UUID) ([]Message, error)
	ListJobMessages(ctx context.Context, userID, jobID uuid.UUID) ([]Message, error)
	MarkRead(ctx context.Context, messageID, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type serviceImpl struct {
	repo        Repository
	jobRepo     job.Repository
	userService shared.Service
	logger      *zap.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new message service.
func NewService(repo Repository, jobRepo job.Repository, userService shared.Service, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:        repo,
		jobRepo:     jobRepo,
		userService: userService,
		logger:      logger.Named("message_service"),
	}
}

// Send delivers a direct message, optionally tied to a job.
func (s *serviceImpl) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*Message, error) {
	if req.RecipientID == senderID {
		return nil, common.ErrBadRequest.WithDetails("You cannot send a message to yourself.")
	}

	if _, err := s.userService.GetUserByID(ctx, req.RecipientID); err != nil {
		return nil, err
	}
	if req.JobID != nil {
		if _, err := s.jobRepo.FindByID(ctx, *req.JobID); err != nil {
			return nil, err
		}
	}

	msg := &Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		JobID:       req.JobID,
		Content:     req.Content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to create message", zap.Error(err), zap.String("senderID", senderID.String()))
		return nil, err
	}
	return s.repo.FindByID(ctx, msg.ID)
}

// SendJobMessage delivers a message about a job to its poster.
func (s *serviceImpl) SendJobMessage(ctx context.Context, senderID, jobID uuid.UUID, content string) (*Message, error) {
	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.PostedByID == senderID {
		return nil, common.ErrBadRequest.WithDetails("You cannot message yourself about your own job.")
	}

	msg := &Message{
		SenderID:    senderID,
		RecipientID: j.PostedByID,
		JobID:       &j.ID,
		Content:     content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to create job message", zap.Error(err), zap.String("jobID", jobID.String()))
		return nil, err
	}
	return s.repo.FindByID(ctx, msg.ID)
}

// ListForUser returns the caller's chat feed, newest first.
func (s *serviceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListConversation returns the two-way thread with another user, oldest first.
func (s *serviceImpl) ListConversation(ctx context.Context, userID, otherUserID uuid.UUID) ([]Message, error) {
	return s.repo.ListConversation(ctx, userID, otherUserID)
}

// ListJobMessages returns the caller's messages on a job, oldest first.
func (s *serviceImpl) ListJobMessages(ctx context.Context, userID, jobID uuid.UUID) ([]Message, error) {
	if _, err := s.jobRepo.FindByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.repo.ListForJob(ctx, userID, jobID)
}

// MarkRead marks a message read on behalf of its recipient.
func (s *serviceImpl) MarkRead(ctx context.Context, messageID, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, messageID, userID)
}

// CountUnread returns the caller's unread inbound message count.
func (s *serviceImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
