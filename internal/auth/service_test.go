// File: internal/auth/service_test.go
package auth

import (
	"testing"
	"time"

	"referme_backend/internal/config"
	"referme_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testTokenService(secret string, expiry time.Duration) shared.TokenService {
	return NewJWTService(&config.Config{
		JWTSecretKey:         secret,
		JWTAccessTokenExpiry: expiry,
	}, zap.NewNop())
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testTokenService("test-secret", time.Hour)

	u := &shared.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Role:  "jobseeker",
	}

	tokenString, expiresAt, err := svc.GenerateAccessToken(u)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "jobseeker", claims.Role)
	assert.Equal(t, "referme_backend", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := testTokenService("secret-one", time.Hour)
	verifier := testTokenService("secret-two", time.Hour)

	u := &shared.User{ID: uuid.New(), Email: "alice@example.com", Role: "jobseeker"}
	tokenString, _, err := issuer.GenerateAccessToken(u)
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := testTokenService("test-secret", -time.Minute)

	u := &shared.User{ID: uuid.New(), Email: "alice@example.com", Role: "jobseeker"}
	tokenString, _, err := svc.GenerateAccessToken(u)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := testTokenService("test-secret", time.Hour)

	claims, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
