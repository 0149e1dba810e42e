// File: internal/message/service_test.go
package message

import (
	"context"
	"errors"
	"testing"

	"referme_backend/internal/common"
	"referme_backend/internal/job"
	"referme_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockMessageRepository is a mock type for message.Repository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil && msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Message), args.Error(1)
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockMessageRepository) ListConversation(ctx context.Context, userID, otherUserID uuid.UUID) ([]Message, error) {
	args := m.Called(ctx, userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockMessageRepository) ListForJob(ctx context.Context, userID, jobID uuid.UUID) ([]Message, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, messageID, recipientID uuid.UUID) error {
	return m.Called(ctx, messageID, recipientID).Error(0)
}

func (m *MockMessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// mockJobRepo stubs the subset of job.Repository the message service touches.
type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Create(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepo) FindBySlug(ctx context.Context, slug string) (*job.Job, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobRepo) List(ctx context.Context, query string, page, pageSize int) ([]job.Job, int64, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]job.Job), args.Get(1).(int64), args.Error(2)
}

func (m *mockJobRepo) ListBatch(ctx context.Context, offset, limit int) ([]job.Job, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *mockJobRepo) CreateReferralRequest(ctx context.Context, rr *job.ReferralRequest) error {
	return m.Called(ctx, rr).Error(0)
}

func (m *mockJobRepo) HasReferralRequest(ctx context.Context, jobID, jobseekerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, jobID, jobseekerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobRepo) ListReferralRequests(ctx context.Context, jobID uuid.UUID) ([]job.ReferralRequest, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.ReferralRequest), args.Error(1)
}

func (m *mockJobRepo) FindReferralRequestByID(ctx context.Context, id uuid.UUID) (*job.ReferralRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.ReferralRequest), args.Error(1)
}

func (m *mockJobRepo) UpdateReferralRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

// mockUserService is a mock for shared.Service
type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, name, email, password, role string) (*shared.User, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*shared.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

type messageServiceFixture struct {
	svc     Service
	repo    *MockMessageRepository
	jobRepo *mockJobRepo
	users   *mockUserService
}

func setupMessageService(t *testing.T) *messageServiceFixture {
	t.Helper()
	f := &messageServiceFixture{
		repo:    new(MockMessageRepository),
		jobRepo: new(mockJobRepo),
		users:   new(mockUserService),
	}
	f.svc = NewService(f.repo, f.jobRepo, f.users, zap.NewNop())
	return f
}

func TestSend_SelfMessageRejected(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	senderID := uuid.New()

	msg, err := f.svc.Send(ctx, senderID, SendMessageRequest{
		RecipientID: senderID,
		Content:     "hello me",
	})
	assert.Nil(t, msg)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSend_UnknownRecipientRejected(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	senderID := uuid.New()
	recipientID := uuid.New()

	f.users.On("GetUserByID", ctx, recipientID).
		Return(nil, common.ErrNotFound.WithDetails("User not found."))

	msg, err := f.svc.Send(ctx, senderID, SendMessageRequest{
		RecipientID: recipientID,
		Content:     "hello",
	})
	assert.Nil(t, msg)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSendJobMessage_RoutesToPoster(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	senderID := uuid.New()
	posterID := uuid.New()
	jobID := uuid.New()

	j := &job.Job{Title: "Engineer", PostedByID: posterID}
	j.ID = jobID
	f.jobRepo.On("FindByID", ctx, jobID).Return(j, nil)
	f.repo.On("Create", ctx, mock.AnythingOfType("*message.Message")).Return(nil)
	f.repo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&Message{SenderID: senderID, RecipientID: posterID}, nil)

	msg, err := f.svc.SendJobMessage(ctx, senderID, jobID, "Could you refer me?")
	assert.NoError(t, err)
	assert.Equal(t, posterID, msg.RecipientID)

	created := f.repo.Calls[0].Arguments.Get(1).(*Message)
	assert.Equal(t, posterID, created.RecipientID)
	assert.NotNil(t, created.JobID)
	assert.Equal(t, jobID, *created.JobID)
}

func TestSendJobMessage_OwnJobRejected(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	posterID := uuid.New()
	jobID := uuid.New()

	j := &job.Job{Title: "Engineer", PostedByID: posterID}
	j.ID = jobID
	f.jobRepo.On("FindByID", ctx, jobID).Return(j, nil)

	msg, err := f.svc.SendJobMessage(ctx, posterID, jobID, "hi")
	assert.Nil(t, msg)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkRead_NonRecipientGetsNotFound(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	messageID := uuid.New()
	otherUser := uuid.New()

	f.repo.On("MarkRead", ctx, messageID, otherUser).
		Return(common.ErrNotFound.WithDetails("Message not found."))

	err := f.svc.MarkRead(ctx, messageID, otherUser)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCountUnread(t *testing.T) {
	f := setupMessageService(t)
	ctx := context.Background()
	userID := uuid.New()

	f.repo.On("CountUnread", ctx, userID).Return(int64(3), nil)

	count, err := f.svc.CountUnread(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
