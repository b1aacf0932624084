package carryforward

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	cf := r.Group("/carry-forward")
	cf.Use(middleware.AuthMiddleware())
	{
		cf.POST("/process", middleware.RequirePermission(domain.PermCarryForward), handler.Process)
		cf.POST("/year-end", middleware.RequirePermission(domain.PermCarryForward), handler.ProcessYearEnd)
		cf.POST("/expire", middleware.RequirePermission(domain.PermCarryForward), handler.ExpireOutstanding)
		cf.GET("/employee/:employeeId", middleware.RequirePermission(domain.PermBalanceRead), handler.GetByEmployee)
	}
}
