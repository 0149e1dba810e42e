// File: internal/auth/handler.go
package auth

import (
	"errors"

	"referme_backend/internal/common"
	"referme_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  shared.Service
	tokenService shared.TokenService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService shared.Service,
	tokenService shared.TokenService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	createdUser, err := h.userService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokenResponse, err := h.issueToken(createdUser)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate access token."))
		return
	}

	response := gin.H{
		"user":  shared.ToUserResponse(createdUser),
		"token": tokenResponse,
	}
	common.RespondCreated(c, "Registration successful.", response)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokenResponse, err := h.issueToken(loggedInUser)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate access token."))
		return
	}

	response := gin.H{
		"user":  shared.ToUserResponse(loggedInUser),
		"token": tokenResponse,
	}
	common.RespondOK(c, "Login successful.", response)
}

func (h *Handler) issueToken(u *shared.User) (*shared.TokenResponse, error) {
	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(u)
	if err != nil {
		h.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, err
	}
	return &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
