package approval

import (
	"context"
	"encoding/json"
	"time"

	"leavedesk/internal/events"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/shared/contextutil"
)

type noopDecisionPublisher struct{}

func NewNoopDecisionPublisher() DecisionPublisher { return noopDecisionPublisher{} }

func (noopDecisionPublisher) PublishLeaveDecided(context.Context, events.LeaveDecidedEvent) error {
	return nil
}

// outboxDecisionPublisher stages decision events in the outbox table; the
// relay worker moves them to Kafka.
type outboxDecisionPublisher struct {
	outbox kafka.OutboxRepository
}

func NewOutboxDecisionPublisher(outbox kafka.OutboxRepository) DecisionPublisher {
	return &outboxDecisionPublisher{outbox: outbox}
}

func (p *outboxDecisionPublisher) PublishLeaveDecided(ctx context.Context, ev events.LeaveDecidedEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	event := kafka.NewPendingEvent(
		contextutil.GetRequestID(ctx),
		"leave_request",
		ev.RequestID,
		ev.EventType,
		events.LeaveDecidedTopic,
		payload,
	)
	return p.outbox.Create(ctx, event)
}
