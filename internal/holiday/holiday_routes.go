package holiday

import (
	"leavedesk/internal/domain"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RequirePermission(domain.PermHolidayRead), handler.GetAll)
		holidays.GET("/working-days", middleware.RequirePermission(domain.PermHolidayRead), handler.WorkingDays)
		holidays.GET("/:id", middleware.RequirePermission(domain.PermHolidayRead), handler.GetById)
		holidays.POST("", middleware.RequirePermission(domain.PermHolidayWrite), handler.Create)
		holidays.PUT("/:id", middleware.RequirePermission(domain.PermHolidayWrite), handler.Update)
		holidays.DELETE("/:id", middleware.RequirePermission(domain.PermHolidayWrite), handler.Delete)
	}
}
