// File: internal/message/handler.go
package message

import (
	"errors"

	"referme_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for chat and job messaging endpoints.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new message handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up chat routes and the job-scoped messaging routes.
// All of them require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	chatGroup := router.Group("/chat")
	chatGroup.Use(authMW)
	{
		chatGroup.GET("", h.listChat)
		chatGroup.POST("/send", h.send)
		chatGroup.GET("/conversation/:userId", h.conversation)
		chatGroup.PUT("/:messageId/read", h.markRead)
		chatGroup.GET("/unread/count", h.unreadCount)
	}

	jobGroup := router.Group("/jobs")
	jobGroup.Use(authMW)
	{
		jobGroup.POST("/:jobId/message", h.sendJobMessage)
		jobGroup.GET("/:jobId/messages", h.listJobMessages)
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

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid "+name+" format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) listChat(c *gin.Context) {
	messages, err := h.service.ListForUser(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Messages retrieved.", messages)
}

func (h *Handler) send(c *gin.Context) {
	var req SendMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), common.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent.", msg)
}

func (h *Handler) conversation(c *gin.Context) {
	otherUserID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	messages, err := h.service.ListConversation(c.Request.Context(), common.GetUserIDFromContext(c), otherUserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Conversation retrieved.", messages)
}

func (h *Handler) markRead(c *gin.Context) {
	messageID, ok := parseUUIDParam(c, "messageId")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), messageID, common.GetUserIDFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Message marked as read.", nil)
}

func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.service.CountUnread(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Unread count retrieved.", gin.H{"unread_count": count})
}

func (h *Handler) sendJobMessage(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	var req SendJobMessageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	msg, err := h.service.SendJobMessage(c.Request.Context(), common.GetUserIDFromContext(c), jobID, req.Content)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent.", msg)
}

func (h *Handler) listJobMessages(c *gin.Context) {
	jobID, ok := parseUUIDParam(c, "jobId")
	if !ok {
		return
	}

	messages, err := h.service.ListJobMessages(c.Request.Context(), common.GetUserIDFromContext(c), jobID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Messages retrieved.", messages)
}
