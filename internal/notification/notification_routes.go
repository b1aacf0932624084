package notification

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Notifications are always scoped to the authenticated user, so no extra
// permission gate beyond authentication.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handler.GetMine)
		notifications.GET("/unread-count", handler.UnreadCount)
		notifications.POST("/:id/read", handler.MarkRead)
		notifications.POST("/read-all", handler.MarkAllRead)
		notifications.DELETE("/:id", handler.Delete)
	}
}
