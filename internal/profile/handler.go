// File: internal/profile/handler.go
package profile

import (
	"errors"

	"referme_backend/internal/common"
	"referme_backend/internal/filestorage"
	"referme_backend/internal/shared"
	"referme_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds dependencies for profile endpoints.
type Handler struct {
	service     Service
	userService *user.ServiceImplementation
	storage     *filestorage.FileStorageService
	logger      *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(
	service Service,
	userService *user.ServiceImplementation,
	storage *filestorage.FileStorageService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
		storage:     storage,
		logger:      logger,
	}
}

// RegisterRoutes sets up the profile routes. All of them require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	profileGroup := router.Group("/profile")
	profileGroup.Use(authMW)
	{
		profileGroup.GET("", h.getMyProfile)
		profileGroup.POST("/complete", h.completeProfile)
		profileGroup.POST("/experience", h.addExperience)
		profileGroup.POST("/education", h.addEducation)
		profileGroup.POST("/verify-company-email", h.verifyCompanyEmail)
		profileGroup.POST("/verify-email-code", h.confirmCompanyEmail)
		profileGroup.POST("/resume", h.uploadResume)
		profileGroup.PUT("/preferences", h.updatePreferences)
	}
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func (h *Handler) getMyProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	u, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var prof *Profile
	prof, err = h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Profile retrieved.", gin.H{
		"user":    shared.ToUserResponse(u),
		"profile": prof,
	})
}

func (h *Handler) completeProfile(c *gin.Context) {
	var req CompleteProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	prof, err := h.service.Complete(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile completed.", prof)
}

func (h *Handler) addExperience(c *gin.Context) {
	var input ExperienceInput
	if !h.bindJSON(c, &input) {
		return
	}

	exp, err := h.service.AddExperience(c.Request.Context(), common.GetUserIDFromContext(c), input)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Experience added.", exp)
}

func (h *Handler) addEducation(c *gin.Context) {
	var input EducationInput
	if !h.bindJSON(c, &input) {
		return
	}

	edu, err := h.service.AddEducation(c.Request.Context(), common.GetUserIDFromContext(c), input)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Education added.", edu)
}

func (h *Handler) verifyCompanyEmail(c *gin.Context) {
	var req VerifyCompanyEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.service.StartCompanyEmailVerification(c.Request.Context(), common.GetUserIDFromContext(c), req.CompanyEmail)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Verification email sent. Check your company inbox.", nil)
}

func (h *Handler) confirmCompanyEmail(c *gin.Context) {
	var req ConfirmCompanyEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	prof, err := h.service.ConfirmCompanyEmail(c.Request.Context(), req.Token)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Company email verified.", prof)
}

func (h *Handler) uploadResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A 'resume' file field is required."))
		return
	}

	relativePath, err := h.storage.SaveResume(fileHeader)
	if err != nil {
		h.logger.Warn("Resume upload rejected", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	prof, err := h.service.SetResumeURL(c.Request.Context(), common.GetUserIDFromContext(c), "/uploads/"+relativePath)
	if err != nil {
		// The profile write failed, do not leave an orphaned file behind.
		if delErr := h.storage.DeleteFile(relativePath); delErr != nil {
			h.logger.Warn("Failed to clean up orphaned resume file", zap.Error(delErr))
		}
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Resume uploaded.", gin.H{"resume_url": prof.ResumeURL})
}

func (h *Handler) updatePreferences(c *gin.Context) {
	var req user.UpdatePreferencesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.userService.UpdatePreferences(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Preferences updated.", updated.Preferences)
}
