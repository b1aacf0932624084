package approval

import (
	"time"

	"github.com/google/uuid"
)

const (
	StepPending  = "PENDING"
	StepApproved = "APPROVED"
	StepRejected = "REJECTED"
	StepSkipped  = "SKIPPED"
)

// ApprovalStep is one link in a request's approval chain. Steps are
// processed strictly in StepOrder; a rejection anywhere skips the rest.
type ApprovalStep struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_step_order"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StepOrder      int       `gorm:"type:int;not null;uniqueIndex:uq_step_order"`

	Status     string  `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Comments   *string `gorm:"type:text"`
	ActionDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
