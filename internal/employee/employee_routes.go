package employee

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RequirePermission(domain.PermEmployeeRead), handler.GetAll)
		employees.GET("/:id", middleware.RequirePermission(domain.PermEmployeeRead), handler.GetById)
		employees.POST("", middleware.RequirePermission(domain.PermEmployeeWrite), handler.Create)
		employees.PUT("/:id", middleware.RequirePermission(domain.PermEmployeeWrite), handler.Update)
		employees.DELETE("/:id", middleware.RequirePermission(domain.PermEmployeeWrite), handler.Delete)
	}
}
