package handler

import (
	"brandlink/internal/apierrors"
	"brandlink/internal/notifications/processor"
	"brandlink/internal/observability"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	processor processor.NotificationProcessor
	logger    *observability.Logger
}

func New(processor processor.NotificationProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

type notificationsResponse struct {
	Success       bool                     `json:"success"`
	Notifications []processor.Notification `json:"notifications"`
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleGetNotifications returns the current operator notification feed
func (h *Handler) HandleGetNotifications(c *gin.Context) {
	ctx := c.Request.Context()

	feed, err := h.processor.GetNotifications(ctx)
	if err != nil {
		h.logger.Error(ctx, "failed to get notifications", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, notificationsResponse{Success: true, Notifications: feed})
}

// HandleMarkAllRead acknowledges a mark-all-read request
func (h *Handler) HandleMarkAllRead(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.processor.MarkAllRead(ctx); err != nil {
		h.logger.Error(ctx, "failed to mark notifications read", err)
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "All notifications marked as read"})
}
