// File: internal/profile/service_test.go
package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"referme_backend/internal/common"
	"referme_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock type for profile.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByVerificationToken(ctx context.Context, token string) (*Profile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) Complete(ctx context.Context, prof *Profile) error {
	args := m.Called(ctx, prof)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, prof *Profile) error {
	args := m.Called(ctx, prof)
	return args.Error(0)
}

func (m *MockProfileRepository) AddEducation(ctx context.Context, edu *Education) error {
	args := m.Called(ctx, edu)
	return args.Error(0)
}

func (m *MockProfileRepository) AddExperience(ctx context.Context, exp *Experience) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockProfileRepository) MarkCompanyEmailVerified(ctx context.Context, prof *Profile, domain string) error {
	args := m.Called(ctx, prof, domain)
	return args.Error(0)
}

func (m *MockProfileRepository) ClearExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailSender is a mock type for email.Sender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendCompanyEmailVerification(ctx context.Context, to, verificationLink string) error {
	args := m.Called(ctx, to, verificationLink)
	return args.Error(0)
}

func (m *MockEmailSender) SendReferralRequestNotice(ctx context.Context, to, posterName, jobseekerName, jobTitle, company string) error {
	args := m.Called(ctx, to, posterName, jobseekerName, jobTitle, company)
	return args.Error(0)
}

func setupProfileService(t *testing.T) (Service, *MockProfileRepository, *MockEmailSender) {
	t.Helper()
	repo := new(MockProfileRepository)
	sender := new(MockEmailSender)
	cfg := &config.Config{
		FrontendBaseURL:           "https://referme.example.com",
		VerificationTokenLifespan: 24 * time.Hour,
	}
	svc := NewService(repo, sender, cfg, zap.NewNop())
	return svc, repo, sender
}

func TestComplete_RequiresDegreeBeforeAnyWrite(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	cases := []CompleteProfileRequest{
		{},
		{Education: []EducationInput{{Degree: "   ", Institution: "MIT"}}},
	}
	for _, req := range cases {
		prof, err := svc.Complete(ctx, userID, req)
		assert.Nil(t, prof)
		assert.True(t, errors.Is(err, common.ErrBadRequest))
	}
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestComplete_Success(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	req := CompleteProfileRequest{
		Bio:    "Backend engineer",
		Skills: []string{"Go", "PostgreSQL"},
		Education: []EducationInput{
			{Degree: "BSc Computer Science", Institution: "UW"},
			{Degree: "MSc Computer Science", Institution: "UW"},
		},
		Experience: []ExperienceInput{{Title: "Engineer", Company: "Acme"}},
	}

	repo.On("Complete", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil)
	repo.On("FindByUserID", ctx, userID).Return(&Profile{UserID: userID}, nil)

	prof, err := svc.Complete(ctx, userID, req)
	assert.NoError(t, err)
	assert.NotNil(t, prof)

	written := repo.Calls[0].Arguments.Get(1).(*Profile)
	assert.Equal(t, userID, written.UserID)
	assert.Len(t, written.Educations, 2)
	assert.Equal(t, 0, written.Educations[0].SortOrder)
	assert.Equal(t, 1, written.Educations[1].SortOrder)
	assert.Len(t, written.Experiences, 1)
	repo.AssertExpectations(t)
}

func TestStartCompanyEmailVerification_AlreadyVerified(t *testing.T) {
	svc, repo, sender := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindByUserID", ctx, userID).Return(&Profile{
		UserID: userID,
		CompanyEmail: CompanyEmail{
			Email:      "alice@acme.com",
			IsVerified: true,
		},
	}, nil)

	err := svc.StartCompanyEmailVerification(ctx, userID, "Alice@Acme.com")
	assert.True(t, errors.Is(err, common.ErrConflict))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "SendCompanyEmailVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartCompanyEmailVerification_WithoutProfile(t *testing.T) {
	svc, repo, sender := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound)
	repo.On("Update", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil)
	sender.On("SendCompanyEmailVerification", ctx, "alice@acme.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.StartCompanyEmailVerification(ctx, userID, "alice@acme.com")
	assert.NoError(t, err)

	written := repo.Calls[1].Arguments.Get(1).(*Profile)
	assert.Equal(t, userID, written.UserID)
	assert.Equal(t, "alice@acme.com", written.CompanyEmail.Email)
	assert.False(t, written.CompanyEmail.IsVerified)
	assert.NotEmpty(t, written.CompanyEmail.VerificationToken)
	assert.NotNil(t, written.CompanyEmail.VerificationTokenExpires)

	link := sender.Calls[0].Arguments.String(2)
	assert.Contains(t, link, "https://referme.example.com/verify-email?token=")
	assert.Contains(t, link, written.CompanyEmail.VerificationToken)
}

func TestStartCompanyEmailVerification_MailFailureSurfaced(t *testing.T) {
	svc, repo, sender := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindByUserID", ctx, userID).Return(&Profile{UserID: userID}, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*profile.Profile")).Return(nil)
	sender.On("SendCompanyEmailVerification", ctx, "alice@acme.com", mock.AnythingOfType("string")).
		Return(errors.New("smtp: connection refused"))

	err := svc.StartCompanyEmailVerification(ctx, userID, "alice@acme.com")
	assert.True(t, errors.Is(err, common.ErrInternalServer))
}

func TestConfirmCompanyEmail_ExpiredToken(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	repo.On("FindByVerificationToken", ctx, "stale-token").Return(&Profile{
		UserID: uuid.New(),
		CompanyEmail: CompanyEmail{
			Email:                    "alice@acme.com",
			VerificationToken:        "stale-token",
			VerificationTokenExpires: &expired,
		},
	}, nil)

	prof, err := svc.ConfirmCompanyEmail(ctx, "stale-token")
	assert.Nil(t, prof)
	assert.True(t, errors.Is(err, common.ErrBadRequest))
	repo.AssertNotCalled(t, "MarkCompanyEmailVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmCompanyEmail_StampsDomain(t *testing.T) {
	svc, repo, _ := setupProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	expires := time.Now().Add(time.Hour)
	stored := &Profile{
		UserID: userID,
		CompanyEmail: CompanyEmail{
			Email:                    "alice@Acme.COM",
			VerificationToken:        "good-token",
			VerificationTokenExpires: &expires,
		},
	}
	repo.On("FindByVerificationToken", ctx, "good-token").Return(stored, nil)
	repo.On("MarkCompanyEmailVerified", ctx, stored, "acme.com").Return(nil)
	repo.On("FindByUserID", ctx, userID).Return(stored, nil)

	prof, err := svc.ConfirmCompanyEmail(ctx, "good-token")
	assert.NoError(t, err)
	assert.NotNil(t, prof)
	repo.AssertExpectations(t)
}

func TestCompanyEmailDomain(t *testing.T) {
	assert.Equal(t, "acme.com", companyEmailDomain("alice@Acme.com"))
	assert.Equal(t, "", companyEmailDomain("no-at-sign"))
	assert.Equal(t, "", companyEmailDomain("trailing@"))
}
