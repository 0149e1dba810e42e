// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"referme_backend/internal/common"
	"referme_backend/internal/config"
	"referme_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a new user account.
func (s *ServiceImplementation) Register(ctx context.Context, name, email, password, role string) (*shared.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := &User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := s.repo.Create(ctx, dbUser); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		zap.String("userID", dbUser.ID.String()),
		zap.String("role", dbUser.Role),
	)
	return dbUser.ToSharedUser(), nil
}

// Login authenticates a user by email and password. The same error is returned
// whether the email is unknown or the password is wrong.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, error) {
	invalidCredentials := common.ErrUnauthorized.WithDetails("Invalid email or password.")

	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		return nil, invalidCredentials
	}

	return dbUser.ToSharedUser(), nil
}

// GetUserByID retrieves a user by ID.
func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dbUser.ToSharedUser(), nil
}

// GetUserByEmail retrieves a user by email.
func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return dbUser.ToSharedUser(), nil
}

// UpdatePreferences replaces the stored job search preferences for a user.
func (s *ServiceImplementation) UpdatePreferences(ctx context.Context, userID uuid.UUID, req UpdatePreferencesRequest) (*User, error) {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dbUser.Preferences = Preferences{
		JobTypes:         req.JobTypes,
		Industries:       req.Industries,
		Locations:        req.Locations,
		RemotePreference: req.RemotePreference,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		SalaryCurrency:   strings.ToUpper(req.SalaryCurrency),
	}

	if err := s.repo.Update(ctx, dbUser); err != nil {
		s.logger.Error("Failed to update user preferences", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}
	return dbUser, nil
}
