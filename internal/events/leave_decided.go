package events

import "time"

const LeaveDecidedTopic = "leave.request.decision.v1"

// LeaveDecidedEvent is emitted when a request reaches a terminal workflow
// state (approved, rejected or cancelled).
type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
