package employee

import (
	"context"
	"encoding/json"
	"time"

	"leavedesk/internal/events"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/shared/contextutil"
)

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher { return noopEventPublisher{} }

func (noopEventPublisher) PublishEmployeeCreated(context.Context, string, string) error {
	return nil
}

// outboxEventPublisher stages lifecycle events in the outbox table; the
// relay worker moves them to Kafka.
type outboxEventPublisher struct {
	outbox kafka.OutboxRepository
}

func NewOutboxEventPublisher(outbox kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{outbox: outbox}
}

func (p *outboxEventPublisher) PublishEmployeeCreated(ctx context.Context, employeeID, email string) error {
	payload, err := json.Marshal(events.EmployeeCreatedEvent{
		EventType:  "employee.created",
		EmployeeID: employeeID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	event := kafka.NewPendingEvent(
		contextutil.GetRequestID(ctx),
		"employee",
		employeeID,
		"employee.created",
		events.EmployeeCreatedTopic,
		payload,
	)
	return p.outbox.Create(ctx, event)
}
