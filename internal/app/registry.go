package app

import (
	"database/sql"

	"leavedesk/internal/approval"
	"leavedesk/internal/auth"
	"leavedesk/internal/balance"
	"leavedesk/internal/carryforward"
	"leavedesk/internal/employee"
	"leavedesk/internal/holiday"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/middleware"
	"leavedesk/internal/notification"
	"leavedesk/internal/report"
	"leavedesk/internal/request"
	"leavedesk/internal/shared/clock"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	clk := clock.New()

	// --- Repositories ---
	approvalRepo := approval.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	carryForwardRepo := carryforward.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reportRepo := report.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)

	// --- Services ---
	notificationService := notification.NewService(notificationRepo, outboxRepo, clk)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	balanceService := balance.NewService(gormDB, balanceRepo, leaveTypeRepo, clk)
	employeeService := employee.NewService(
		gormDB,
		employeeRepo,
		balanceService,
		employee.NewOutboxEventPublisher(outboxRepo),
	)
	approvalService := approval.NewService(
		gormDB,
		approvalRepo,
		requestRepo,
		employeeRepo,
		balanceService,
		notificationService,
		approval.NewOutboxDecisionPublisher(outboxRepo),
		clk,
	)
	requestService := request.NewService(
		gormDB,
		requestRepo,
		balanceService,
		balanceService,
		approvalService,
		approvalRepo,
		approval.NewOutboxDecisionPublisher(outboxRepo),
		clk,
	)
	carryForwardService := carryforward.NewService(
		gormDB,
		carryForwardRepo,
		balanceRepo,
		leaveTypeRepo,
		employeeRepo,
		clk,
	)
	holidayService := holiday.NewService(holidayRepo)
	reportService := report.NewService(reportRepo, rdb, clk)
	authService := auth.NewService(employeeRepo, clk)

	// --- Handlers ---
	approvalHandler := approval.NewHandler(approvalService)
	authHandler := auth.NewHandler(authService)
	balanceHandler := balance.NewHandler(balanceService)
	carryForwardHandler := carryforward.NewHandler(carryForwardService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	notificationHandler := notification.NewHandler(notificationService)
	reportHandler := report.NewHandler(reportService)
	requestHandler := request.NewHandlerWithRedis(requestService, rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		approval.RegisterRoutes(api, approvalHandler)
		auth.RegisterRoutes(api, authHandler)
		balance.RegisterRoutes(api, balanceHandler)
		carryforward.RegisterRoutes(api, carryForwardHandler)
		employee.RegisterRoutes(api, employeeHandler)
		holiday.RegisterRoutes(api, holidayHandler)
		leavetype.RegisterRoutes(api, leaveTypeHandler)
		notification.RegisterRoutes(api, notificationHandler)
		report.RegisterRoutes(api, reportHandler)
		request.RegisterRoutes(api, requestHandler, rdb)
	}

	return nil
}
