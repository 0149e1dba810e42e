// File: internal/job/handler.go
package job

import (
	"errors"

	"referme_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for job endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new job handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the job routes. All of them require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobGroup := router.Group("/jobs")
	jobGroup.Use(authMW)
	{
		jobGroup.GET("", h.listJobs)
		jobGroup.POST("", h.createJob)
		jobGroup.GET("/:jobId", h.getJob)
		jobGroup.POST("/:jobId/request-referral", h.requestReferral)
		jobGroup.GET("/:jobId/referral-requests", h.listReferralRequests)
		jobGroup.PATCH("/:jobId/referral-requests/:requestId", h.updateReferralStatus)
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid "+name+" format."))
		return uuid.Nil, false
	}
	return id, true
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

func (h *Handler) listJobs(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	query := c.Query("q")

	jobs, pagination, err := h.service.List(c.Request.Context(), query, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Jobs retrieved.", jobs, pagination)
}

func (h *Handler) createJob(c *gin.Context) {
	var req CreateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	j, err := h.service.Create(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Job posted.", j)
}

func (h *Handler) getJob(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	j, err := h.service.GetByID(c.Request.Context(), jobID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Job retrieved.", j)
}

func (h *Handler) requestReferral(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	rr, err := h.service.RequestReferral(c.Request.Context(), jobID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Referral requested.", rr)
}

func (h *Handler) listReferralRequests(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	requests, err := h.service.ListReferralRequests(c.Request.Context(), jobID, common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Referral requests retrieved.", requests)
}

func (h *Handler) updateReferralStatus(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}
	requestID, ok := parseUUIDParam(c, "requestId")
	if !ok {
		return
	}

	var req UpdateReferralStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rr, err := h.service.UpdateReferralStatus(c.Request.Context(), jobID, requestID, common.GetUserIDFromContext(c), req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Referral request updated.", rr)
}
