package notification

import (
	"context"
	"encoding/json"
	"errors"

	"leavedesk/internal/events"
	"leavedesk/internal/messaging/kafka"
	notificationerrors "leavedesk/internal/notification/errors"
	"leavedesk/internal/shared/clock"
	"leavedesk/internal/shared/contextutil"
	"leavedesk/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Notify records an in-app notification and enqueues an outbox event
	// for downstream delivery. It is best effort: failures are logged and
	// swallowed so workflow transitions never block on notifications.
	Notify(ctx context.Context, userID, title, message, category, link string)

	GetByUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, *response.PaginationMeta, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type service struct {
	repo   Repository
	outbox kafka.OutboxRepository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(
	repo Repository,
	outbox kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, outbox: outbox, clk: clk, logger: l}
}

func (s *service) Notify(ctx context.Context, userID, title, message, category, link string) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		s.logger.Warn("notify skipped, invalid user id", zap.String("user_id", userID))
		return
	}

	n := &Notification{
		ID:       uuid.New(),
		UserID:   uid,
		Title:    title,
		Message:  message,
		Category: category,
		Link:     link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("user_id", userID),
			zap.String("category", category),
			zap.Error(err),
		)
		return
	}

	payload, err := json.Marshal(events.NotificationCreatedEvent{
		NotificationID: n.ID.String(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Category:       category,
		Link:           link,
		OccurredAt:     s.clk.Now(),
	})
	if err != nil {
		s.logger.Error("encode notification event failed", zap.Error(err))
		return
	}

	event := kafka.NewPendingEvent(
		contextutil.GetRequestID(ctx),
		"notification",
		n.ID.String(),
		"notification.created",
		events.NotificationCreatedTopic,
		payload,
	)
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error("enqueue notification event failed",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", userID),
		zap.String("category", category),
	)
}

func (s *service) GetByUser(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, *response.PaginationMeta, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil, notificationerrors.ErrInvalidUserID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.FindByUser(ctx, uid, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	out := make([]NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	meta := response.NewPaginationMeta(total, page, limit)
	return out, &meta, nil
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, notificationerrors.ErrInvalidUserID
	}
	return s.repo.CountUnread(ctx, uid)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return notificationerrors.ErrInvalidUserID
	}
	nid, err := uuid.Parse(notificationID)
	if err != nil {
		return notificationerrors.ErrNotificationNotFound
	}

	n, err := s.repo.FindByID(ctx, nid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != uid {
		return notificationerrors.ErrNotYourNotification
	}

	return s.repo.MarkRead(ctx, nid, s.clk.Now())
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return notificationerrors.ErrInvalidUserID
	}
	return s.repo.MarkAllRead(ctx, uid, s.clk.Now())
}

func (s *service) Delete(ctx context.Context, userID, notificationID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return notificationerrors.ErrInvalidUserID
	}
	nid, err := uuid.Parse(notificationID)
	if err != nil {
		return notificationerrors.ErrNotificationNotFound
	}

	n, err := s.repo.FindByID(ctx, nid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notificationerrors.ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != uid {
		return notificationerrors.ErrNotYourNotification
	}

	return s.repo.Delete(ctx, nid)
}
