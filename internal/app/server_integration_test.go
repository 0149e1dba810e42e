// File: internal/app/server_integration_test.go
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"referme_backend/internal/auth"
	"referme_backend/internal/config"
	"referme_backend/internal/filestorage"
	"referme_backend/internal/job"
	"referme_backend/internal/message"
	"referme_backend/internal/middleware"
	"referme_backend/internal/platform/database"
	"referme_backend/internal/profile"
	"referme_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// noopSender satisfies email.Sender without a mail relay.
type noopSender struct{}

func (noopSender) SendCompanyEmailVerification(ctx context.Context, to, verificationLink string) error {
	return nil
}

func (noopSender) SendReferralRequestNotice(ctx context.Context, to, posterName, jobseekerName, jobTitle, company string) error {
	return nil
}

// APIIntegrationTestSuite exercises the HTTP surface end to end against an
// in-memory sqlite database.
type APIIntegrationTestSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *gorm.DB
	Cfg    *config.Config

	jobseekerToken string
	jobseekerID    string
	employeeToken  string
	employeeID     string
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	s.Cfg = &config.Config{
		JWTSecretKey:              "integration-test-secret-key",
		JWTAccessTokenExpiry:      time.Hour,
		VerificationTokenLifespan: 24 * time.Hour,
		FrontendBaseURL:           "http://localhost:3000",
		UploadStoragePath:         s.T().TempDir(),
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	s.Require().NoError(err, "Failed to open in-memory sqlite database")
	s.DB = db

	err = database.AutoMigrate(db,
		&user.User{},
		&profile.Profile{},
		&profile.Education{},
		&profile.Experience{},
		&profile.Project{},
		&profile.Certification{},
		&job.Job{},
		&job.ReferralRequest{},
		&message.Message{},
	)
	s.Require().NoError(err, "Failed to migrate test schema")

	sender := noopSender{}
	tokenService := auth.NewJWTService(s.Cfg, logger)

	userRepo := user.NewGORMRepository(db)
	userService := user.NewService(userRepo, s.Cfg, logger)

	storage, err := filestorage.NewFileStorageService(s.Cfg.UploadStoragePath, logger)
	s.Require().NoError(err)

	profileRepo := profile.NewGORMRepository(db)
	profileService := profile.NewService(profileRepo, sender, s.Cfg, logger)

	jobRepo := job.NewGORMRepository(db)
	jobService := job.NewService(jobRepo, profileRepo, userService, sender, nil, s.Cfg, logger)

	messageRepo := message.NewGORMRepository(db)
	messageService := message.NewService(messageRepo, jobRepo, userService, logger)

	authHandler := auth.NewHandler(userService, tokenService, logger)
	profileHandler := profile.NewHandler(profileService, userService, storage, logger)
	jobHandler := job.NewHandler(jobService, logger)
	messageHandler := message.NewHandler(messageService, logger)

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	authMW := middleware.AuthMiddleware(tokenService, logger)

	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	profileHandler.RegisterRoutes(api, authMW)
	jobHandler.RegisterRoutes(api, authMW)
	messageHandler.RegisterRoutes(api, authMW)
	s.Router = router
}

func (s *APIIntegrationTestSuite) doJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func (s *APIIntegrationTestSuite) decodeData(rec *httptest.ResponseRecorder) map[string]interface{} {
	var envelope struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func (s *APIIntegrationTestSuite) registerUser(name, email, role string) (token, userID string) {
	rec := s.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, "registration failed: %s", rec.Body.String())

	data := s.decodeData(rec)
	tokenObj, ok := data["token"].(map[string]interface{})
	s.Require().True(ok, "token missing from registration response")
	userObj, ok := data["user"].(map[string]interface{})
	s.Require().True(ok, "user missing from registration response")
	return tokenObj["access_token"].(string), userObj["id"].(string)
}

// TestReferralFlow walks the whole platform lifecycle: two accounts, a job
// posting, a completed profile, a referral request and its poster-side view.
func (s *APIIntegrationTestSuite) TestReferralFlow() {
	s.jobseekerToken, s.jobseekerID = s.registerUser("Alice Seeker", "alice@example.com", "jobseeker")
	s.employeeToken, s.employeeID = s.registerUser("Bob Poster", "bob@acme.com", "employee")

	// Unauthenticated access is rejected.
	rec := s.doJSON(http.MethodGet, "/api/jobs", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	// Duplicate registration conflicts.
	rec = s.doJSON(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "password123",
		"role":     "jobseeker",
	})
	s.Equal(http.StatusConflict, rec.Code)

	// Bob posts a job.
	rec = s.doJSON(http.MethodPost, "/api/jobs", s.employeeToken, gin.H{
		"title":       "Senior Go Engineer",
		"company":     "Acme",
		"location":    "Seattle, WA",
		"description": "Build and run backend services.",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	jobID := s.decodeData(rec)["id"].(string)
	s.NotEmpty(jobID)

	referralPath := fmt.Sprintf("/api/jobs/%s/request-referral", jobID)

	// Alice cannot request a referral before completing her profile.
	rec = s.doJSON(http.MethodPost, referralPath, s.jobseekerToken, nil)
	s.Equal(http.StatusNotFound, rec.Code, rec.Body.String())

	// Alice completes her profile.
	rec = s.doJSON(http.MethodPost, "/api/profile/complete", s.jobseekerToken, gin.H{
		"bio":    "Backend engineer with 5 years of Go.",
		"skills": []string{"Go", "PostgreSQL"},
		"education": []gin.H{
			{"degree": "BSc Computer Science", "institution": "UW"},
		},
		"experience": []gin.H{
			{"title": "Engineer", "company": "Initech"},
		},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// Now the referral request goes through.
	rec = s.doJSON(http.MethodPost, referralPath, s.jobseekerToken, nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	request := s.decodeData(rec)
	s.Equal("pending", request["status"])

	// A second request for the same job is rejected.
	rec = s.doJSON(http.MethodPost, referralPath, s.jobseekerToken, nil)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())

	// Bob sees exactly one pending request with Alice's snapshot data.
	listPath := fmt.Sprintf("/api/jobs/%s/referral-requests", jobID)
	rec = s.doJSON(http.MethodGet, listPath, s.employeeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var listEnvelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &listEnvelope))
	s.Require().Len(listEnvelope.Data, 1)
	s.Equal("Alice Seeker", listEnvelope.Data[0]["jobseeker_name"])
	s.Equal("alice@example.com", listEnvelope.Data[0]["jobseeker_email"])

	// Alice may not view the poster-side list.
	rec = s.doJSON(http.MethodGet, listPath, s.jobseekerToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	// Bob accepts the request.
	requestID := listEnvelope.Data[0]["id"].(string)
	patchPath := fmt.Sprintf("/api/jobs/%s/referral-requests/%s", jobID, requestID)
	rec = s.doJSON(http.MethodPatch, patchPath, s.employeeToken, gin.H{"status": "accepted"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("accepted", s.decodeData(rec)["status"])

	// Alice messages Bob about the job; Bob's unread count reflects it.
	messagePath := fmt.Sprintf("/api/jobs/%s/message", jobID)
	rec = s.doJSON(http.MethodPost, messagePath, s.jobseekerToken, gin.H{
		"content": "Thank you for the referral!",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	messageID := s.decodeData(rec)["id"].(string)

	rec = s.doJSON(http.MethodGet, "/api/chat/unread/count", s.employeeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(float64(1), s.decodeData(rec)["unread_count"])

	// Only the recipient can mark the message read.
	readPath := fmt.Sprintf("/api/chat/%s/read", messageID)
	rec = s.doJSON(http.MethodPut, readPath, s.jobseekerToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.doJSON(http.MethodPut, readPath, s.employeeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doJSON(http.MethodGet, "/api/chat/unread/count", s.employeeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(float64(0), s.decodeData(rec)["unread_count"])
}

// TestLoginAndTokenUse verifies login issues a token the middleware accepts.
func (s *APIIntegrationTestSuite) TestLoginAndTokenUse() {
	s.registerUser("Carol Worker", "carol@globex.com", "employee")

	rec := s.doJSON(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carol@globex.com",
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	token := s.decodeData(rec)["token"].(map[string]interface{})["access_token"].(string)

	rec = s.doJSON(http.MethodGet, "/api/jobs", token, nil)
	s.Equal(http.StatusOK, rec.Code)

	// Wrong password gets the generic unauthorized answer.
	rec = s.doJSON(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carol@globex.com",
		"password": "not-the-password",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
