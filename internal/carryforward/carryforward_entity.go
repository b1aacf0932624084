package carryforward

import (
	"time"

	"github.com/google/uuid"
)

// CarryForwardRecord tracks days moved from one year's balance into the
// next. The unique index makes the operation naturally idempotent: a second
// run for the same bucket pair is a constraint violation, not a double
// credit.
type CarryForwardRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_carry_forward"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_carry_forward"`
	FromYear    int       `gorm:"type:int;not null;uniqueIndex:uq_carry_forward"`
	ToYear      int       `gorm:"type:int;not null;uniqueIndex:uq_carry_forward"`

	CarriedDays int `gorm:"type:int;not null"`

	// ExpiryDate, when set, is the last day the carried days may be used.
	ExpiryDate *time.Time `gorm:"type:date;index"`
	IsExpired  bool       `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
