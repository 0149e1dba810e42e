// File: internal/user/service_test.go
package user

import (
	"context"
	"testing"

	"referme_backend/internal/common"
	"referme_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func setupUserService(t *testing.T) (*ServiceImplementation, *MockUserRepository) {
	t.Helper()
	repo := new(MockUserRepository)
	svc := NewService(repo, &config.Config{}, zap.NewNop())
	return svc, repo
}

func TestRegister_Success(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "alice@example.com").Return(nil, common.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	u, err := svc.Register(ctx, "Alice", "Alice@Example.com", "supersecret", common.RoleJobseeker)

	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, common.RoleJobseeker, u.Role)

	created := repo.Calls[1].Arguments.Get(1).(*User)
	assert.NotEqual(t, "supersecret", created.PasswordHash)
	assert.True(t, common.CheckPasswordHash("supersecret", created.PasswordHash))
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	existing := &User{Email: "taken@example.com", Role: common.RoleEmployee}
	repo.On("FindByEmail", ctx, "taken@example.com").Return(existing, nil)

	// A different role and password makes no difference.
	u, err := svc.Register(ctx, "Someone", "taken@example.com", "otherpassword", common.RoleJobseeker)

	assert.Nil(t, u)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	hash, err := common.HashPassword("rightpassword")
	assert.NoError(t, err)

	repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, common.ErrNotFound)
	repo.On("FindByEmail", ctx, "alice@example.com").Return(&User{
		Email:        "alice@example.com",
		PasswordHash: hash,
	}, nil)

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever")
	_, errWrongPw := svc.Login(ctx, "alice@example.com", "wrongpassword")

	apiErrUnknown, ok := common.IsAPIError(errUnknown)
	assert.True(t, ok)
	apiErrWrongPw, ok := common.IsAPIError(errWrongPw)
	assert.True(t, ok)

	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, apiErrUnknown.Code, apiErrWrongPw.Code)
	assert.Equal(t, apiErrUnknown.Message, apiErrWrongPw.Message)
	assert.Equal(t, apiErrUnknown.Details, apiErrWrongPw.Details)
}

func TestLogin_Success(t *testing.T) {
	svc, repo := setupUserService(t)
	ctx := context.Background()

	hash, err := common.HashPassword("rightpassword")
	assert.NoError(t, err)

	stored := &User{Email: "alice@example.com", PasswordHash: hash, Role: common.RoleJobseeker}
	stored.ID = uuid.New()
	repo.On("FindByEmail", ctx, "alice@example.com").Return(stored, nil)

	u, err := svc.Login(ctx, "alice@example.com", "rightpassword")
	assert.NoError(t, err)
	assert.Equal(t, stored.ID, u.ID)
}
