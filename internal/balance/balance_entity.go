package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one accounting bucket: (employee, leave type, year).
// Remaining is always derived, never stored.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_bucket"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balance_bucket"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:uq_balance_bucket"`

	// TotalDays moves via admin adjustment and carry-forward credit.
	// UsedDays moves only via workflow deduct/restore.
	TotalDays int `gorm:"type:int;not null;default:0"`
	UsedDays  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}
