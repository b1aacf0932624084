package leavetype

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RequirePermission(domain.PermLeaveTypeRead), handler.GetAll)
		types.GET("/:id", middleware.RequirePermission(domain.PermLeaveTypeRead), handler.GetById)
		types.POST("", middleware.RequirePermission(domain.PermLeaveTypeWrite), handler.Create)
		types.PUT("/:id", middleware.RequirePermission(domain.PermLeaveTypeWrite), handler.Update)
		types.DELETE("/:id", middleware.RequirePermission(domain.PermLeaveTypeWrite), handler.Delete)
	}
}
