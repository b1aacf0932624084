package leavetype

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	Description string    `gorm:"type:text"`

	// DefaultDays is the yearly allocation granted when balances are
	// initialized for an employee.
	DefaultDays int  `gorm:"type:int;not null;default:0"`
	IsActive    bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
