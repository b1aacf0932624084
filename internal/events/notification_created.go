package events

import "time"

const NotificationCreatedTopic = "leave.notification.v1"

type NotificationCreatedEvent struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Category       string    `json:"category"`
	Link           string    `json:"link"`
	OccurredAt     time.Time `json:"occurred_at"`
}
