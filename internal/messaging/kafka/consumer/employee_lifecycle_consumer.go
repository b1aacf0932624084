package consumer

import (
	"context"
	"encoding/json"

	"leavedesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BalanceSeeder creates the current-year balance buckets for a new
// employee. Seeding is idempotent, so redelivered events are harmless.
type BalanceSeeder interface {
	InitializeForEmployee(ctx context.Context, employeeID string) (int, error)
}

func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	seeder BalanceSeeder,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		created, err := seeder.InitializeForEmployee(ctx, event.EmployeeID)
		if err != nil {
			log.Error("seed balances from employee_created event failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("balances seeded from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.Int("created", created),
		)
	}
}
