package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
)

// NotificationHandler handles notification inbox endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *appnotification.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *appnotification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications", middleware.RequireAuth())
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	resp, err := h.notificationService.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"count": count})
}

// MarkRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.GetPrincipal(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

var _ router.RouteRegistrar = (*NotificationHandler)(nil)
