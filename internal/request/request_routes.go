package request

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", middleware.RequirePermission(domain.PermRequestRead), handler.GetAll)
		requests.GET("/pending", middleware.RequirePermission(domain.PermRequestRead), handler.GetPending)
		requests.GET("/employee/:employeeId", middleware.RequirePermission(domain.PermRequestRead), handler.GetByEmployee)
		requests.GET("/:id", middleware.RequirePermission(domain.PermRequestRead), handler.GetById)
		requests.POST("", middleware.RequirePermission(domain.PermRequestWrite), middleware.Idempotency(rdb), handler.Create)
		requests.PUT("/:id", middleware.RequirePermission(domain.PermRequestWrite), handler.Update)
		requests.POST("/:id/cancel", middleware.RequirePermission(domain.PermRequestWrite), handler.Cancel)
		requests.DELETE("/:id", middleware.RequirePermission(domain.PermRequestDelete), handler.Delete)
	}
}
