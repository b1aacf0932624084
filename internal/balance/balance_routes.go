package balance

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/employee/:employeeId", middleware.RequirePermission(domain.PermBalanceRead), handler.GetEmployeeBalances)
		balances.PUT("/adjust", middleware.RequirePermission(domain.PermBalanceAdjust), handler.Adjust)
		balances.POST("/employee/:employeeId/initialize", middleware.RequirePermission(domain.PermBalanceAdjust), handler.Initialize)
	}
}
