package approval

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.GET("/pending", middleware.RequirePermission(domain.PermApprovalAct), handler.GetPending)
		approvals.GET("/request/:requestId", middleware.RequirePermission(domain.PermRequestRead), handler.GetSteps)
		approvals.POST("/:stepId/process", middleware.RequirePermission(domain.PermApprovalAct), handler.ProcessStep)
	}
}
