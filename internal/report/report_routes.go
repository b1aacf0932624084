package report

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/leave-summary", middleware.RequirePermission(domain.PermReportRead), handler.LeaveSummary)
		reports.GET("/leave-summary/export", middleware.RequirePermission(domain.PermReportRead), handler.ExportLeaveSummary)
	}
}
