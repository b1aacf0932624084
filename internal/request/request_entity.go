package request

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	// Dates are inclusive calendar dates; EndDate >= StartDate always.
	StartDate time.Time `gorm:"type:date;not null;index:idx_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_requests_employee_dates"`

	// TotalDays is the business-day count of the range (weekends excluded).
	TotalDays int    `gorm:"type:int;not null;default:1"`
	Reason    string `gorm:"type:text"`

	Status           string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedByID     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt       *time.Time
	ApproverComments *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAllowedStatusTransition encodes the request lifecycle: Pending fans out
// to the three terminal states, and Approved->Cancelled is the single
// compensating exit from a terminal state.
func IsAllowedStatusTransition(current, target string) bool {
	switch current {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusCancelled
	default:
		return false
	}
}
