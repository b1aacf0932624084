package notification_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"leavedesk/internal/events"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notification"
	notificationerrors "leavedesk/internal/notification/errors"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeOutbox struct {
	events []kafka.OutboxEvent
	err    error
}

func (f *fakeOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(context.Context, string) error           { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, string, string) error { return nil }

type notificationFixture struct {
	repo    notification.Repository
	outbox  *fakeOutbox
	service notification.Service
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&notification.Notification{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	repo := notification.NewRepository(db)
	outbox := &fakeOutbox{}
	clk := clock.Fixed{T: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	return &notificationFixture{
		repo:    repo,
		outbox:  outbox,
		service: notification.NewService(repo, outbox, clk),
	}
}

func TestService_Notify(t *testing.T) {
	fx := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.service.Notify(ctx, userID.String(),
		"Leave request approved", "Your leave for June 9 was approved.",
		"approval", "/requests/abc")

	count, err := fx.repo.CountUnread(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// an outbox row is staged for the email fan-out
	if assert.Len(t, fx.outbox.events, 1) {
		ev := fx.outbox.events[0]
		assert.Equal(t, events.NotificationCreatedTopic, ev.Topic)
		assert.Equal(t, "notification.created", ev.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
	}
}

func TestService_Notify_BadUserID(t *testing.T) {
	fx := newNotificationFixture(t)

	// invalid ids are dropped silently
	fx.service.Notify(context.Background(), "not-a-uuid", "t", "m", "general", "")
	assert.Empty(t, fx.outbox.events)
}

func TestService_Notify_OutboxFailureDoesNotPanic(t *testing.T) {
	fx := newNotificationFixture(t)
	fx.outbox.err = sql.ErrConnDone
	ctx := context.Background()
	userID := uuid.New()

	fx.service.Notify(ctx, userID.String(), "t", "m", "general", "")

	// the in-app row still lands even when the event cannot be staged
	count, err := fx.repo.CountUnread(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestService_GetByUser_Pagination(t *testing.T) {
	fx := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 7; i++ {
		fx.service.Notify(ctx, userID.String(), "t", "m", "general", "")
	}

	items, meta, err := fx.service.GetByUser(ctx, userID.String(), 2, 5)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	if assert.NotNil(t, meta) {
		assert.Equal(t, int64(7), meta.Total)
		assert.Equal(t, 2, meta.Page)
	}

	_, _, err = fx.service.GetByUser(ctx, "not-a-uuid", 1, 10)
	assert.ErrorIs(t, err, notificationerrors.ErrInvalidUserID)
}

func TestService_MarkRead(t *testing.T) {
	fx := newNotificationFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	fx.service.Notify(ctx, owner.String(), "t", "m", "general", "")
	items, _, err := fx.service.GetByUser(ctx, owner.String(), 1, 10)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	// only the owner may mark it read
	err = fx.service.MarkRead(ctx, other.String(), items[0].ID)
	assert.ErrorIs(t, err, notificationerrors.ErrNotYourNotification)

	assert.NoError(t, fx.service.MarkRead(ctx, owner.String(), items[0].ID))

	count, _ := fx.repo.CountUnread(ctx, owner)
	assert.Equal(t, int64(0), count)

	err = fx.service.MarkRead(ctx, owner.String(), uuid.NewString())
	assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
}

func TestService_Delete(t *testing.T) {
	fx := newNotificationFixture(t)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	fx.service.Notify(ctx, owner.String(), "t", "m", "general", "")
	items, _, err := fx.service.GetByUser(ctx, owner.String(), 1, 10)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	err = fx.service.Delete(ctx, other.String(), items[0].ID)
	assert.ErrorIs(t, err, notificationerrors.ErrNotYourNotification)

	assert.NoError(t, fx.service.Delete(ctx, owner.String(), items[0].ID))

	items, _, err = fx.service.GetByUser(ctx, owner.String(), 1, 10)
	assert.NoError(t, err)
	assert.Empty(t, items)

	err = fx.service.Delete(ctx, owner.String(), uuid.NewString())
	assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
}

func TestService_MarkAllRead(t *testing.T) {
	fx := newNotificationFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		fx.service.Notify(ctx, userID.String(), "t", "m", "general", "")
	}
	assert.NoError(t, fx.service.MarkAllRead(ctx, userID.String()))

	count, _ := fx.repo.CountUnread(ctx, userID)
	assert.Equal(t, int64(0), count)
}
