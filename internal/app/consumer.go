package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leavedesk/internal/balance"
	"leavedesk/internal/employee"
	"leavedesk/internal/events"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/messaging/kafka/consumer"
	"leavedesk/internal/notification"
	"leavedesk/internal/shared/clock"
	"leavedesk/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// employeeEmailTarget resolves notification recipients to email addresses.
type employeeEmailTarget struct {
	repo employee.Repository
}

func (t employeeEmailTarget) EmailForUser(ctx context.Context, userID string) (string, error) {
	emp, err := t.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return emp.Email, nil
}

// RunConsumer starts the Kafka consumers: one seeds balances for new
// employees, one delivers notification emails.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	balanceRepo := balance.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	balanceService := balance.NewService(gormDB, balanceRepo, leaveTypeRepo, clock.New())
	mailer := notification.NewMailerFromEnv()

	lifecycleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EmployeeCreatedTopic,
		GroupID:        "leavedesk-balance-seeder",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer lifecycleReader.Close()

	notificationReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.NotificationCreatedTopic,
		GroupID:        "leavedesk-notification-email",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer notificationReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, lifecycleReader, balanceService, logger)
	go consumer.ConsumeNotificationCreated(ctx, notificationReader, employeeEmailTarget{repo: employeeRepo}, mailer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
