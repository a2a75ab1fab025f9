package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/service"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// NotificationHandler email dispatch HTTP handlers.
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// SendEmail dispatches one transactional email, optionally drafting
// the body from a prompt first.
// POST /api/v1/notifications/email
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req dto.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.notificationSvc.SendEmail(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailPromptMissing):
			response.BadRequest(c, 15001, "prompt is required when useAI is set")
		case errors.Is(err, service.ErrEmailContentMissing):
			response.BadRequest(c, 15002, "content is required when useAI is not set")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
