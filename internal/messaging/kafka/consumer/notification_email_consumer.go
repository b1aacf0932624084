package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"leavedesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmailTarget resolves a user id to a deliverable address.
type EmailTarget interface {
	EmailForUser(ctx context.Context, userID string) (string, error)
}

// Mailer matches notification.Mailer without importing the package.
type Mailer interface {
	Send(to, subject, body string) error
}

func ConsumeNotificationCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	target EmailTarget,
	mailer Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification_email")
	log.Info("notification email consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification email consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.NotificationCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		email, err := target.EmailForUser(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("notification target not found, dropping",
					zap.String("user_id", event.UserID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("resolve notification target failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := mailer.Send(email, event.Title, event.Message); err != nil {
			log.Error("send notification email failed",
				zap.String("notification_id", event.NotificationID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}

		log.Info("notification email sent",
			zap.String("notification_id", event.NotificationID),
			zap.String("user_id", event.UserID),
		)
	}
}
