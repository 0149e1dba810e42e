// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"referme_backend/internal/auth"
	"referme_backend/internal/config"
	"referme_backend/internal/job"
	"referme_backend/internal/jobs"
	"referme_backend/internal/message"
	"referme_backend/internal/middleware"
	platformES "referme_backend/internal/platform/elasticsearch"
	"referme_backend/internal/profile"
	"referme_backend/internal/shared"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config

	// Exposed for the sync-jobs command and index bootstrap in main.
	AppLogger *zap.Logger
	DB        *gorm.DB
	ESClient  *platformES.ESClientWrapper

	// Handlers
	authHandler    *auth.Handler
	profileHandler *profile.Handler
	jobHandler     *job.Handler
	messageHandler *message.Handler

	// Jobs
	tokenCleanupJob *jobs.TokenCleanupJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	profileHandler *profile.Handler,
	jobHandler *job.Handler,
	messageHandler *message.Handler,
	tokenCleanupJob *jobs.TokenCleanupJob,
	tokenService shared.TokenService,
	db *gorm.DB,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "ReferMe API is healthy!"})
	})

	// Static assets: uploaded resumes and the marketing pages.
	router.Static("/uploads", cfg.UploadStoragePath)
	router.StaticFile("/", "./web/static/index.html")
	router.StaticFile("/privacy", "./web/static/privacy.html")
	router.StaticFile("/terms", "./web/static/terms.html")

	api := router.Group("/api")

	authHandler.RegisterRoutes(api)
	profileHandler.RegisterRoutes(api, authMW)
	jobHandler.RegisterRoutes(api, authMW)
	messageHandler.RegisterRoutes(api, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:      httpServer,
		router:          router,
		cfg:             cfg,
		AppLogger:       logger,
		DB:              db,
		ESClient:        esClient,
		authHandler:     authHandler,
		profileHandler:  profileHandler,
		jobHandler:      jobHandler,
		messageHandler:  messageHandler,
		tokenCleanupJob: tokenCleanupJob,
		authMW:          authMW,
	}, nil
}

// Start runs the background jobs and the HTTP listener. It blocks until the
// server stops.
func (s *Server) Start() error {
	if s.tokenCleanupJob != nil {
		if err := s.tokenCleanupJob.SetupAndStart(); err != nil {
			s.AppLogger.Error("Failed to setup and start token cleanup job", zap.Error(err))
		}
	} else {
		s.AppLogger.Info("Token cleanup job is not configured, skipping start.")
	}

	s.AppLogger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.AppLogger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.AppLogger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the cron scheduler and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.AppLogger.Info("Attempting graceful server shutdown...")
	if s.tokenCleanupJob != nil {
		s.tokenCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
