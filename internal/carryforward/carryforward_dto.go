package carryforward

import "time"

type ProcessRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	FromYear    int    `json:"from_year" binding:"required,min=2000,max=2200"`
	ToYear      int    `json:"to_year" binding:"omitempty,min=2000,max=2200"`

	// MaxDays caps how many remaining days may be carried. Zero means use
	// the leave type's policy cap.
	MaxDays int `json:"max_days" binding:"omitempty,min=0"`

	// ExpiryDate overrides the default March 31st use-by date of the target
	// year. Format 2006-01-02.
	ExpiryDate string `json:"expiry_date" binding:"omitempty"`
}

type YearEndRequest struct {
	FromYear int `json:"from_year" binding:"required,min=2000,max=2200"`
}

type RecordResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	LeaveTypeID string     `json:"leave_type_id"`
	FromYear    int        `json:"from_year"`
	ToYear      int        `json:"to_year"`
	CarriedDays int        `json:"carried_days"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsExpired   bool       `json:"is_expired"`
	CreatedAt   time.Time  `json:"created_at"`
}

type YearEndSummary struct {
	FromYear  int `json:"from_year"`
	ToYear    int `json:"to_year"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type ExpirySummary struct {
	Expired   int `json:"expired"`
	Reclaimed int `json:"reclaimed_days"`
}

func toRecordResponse(rec *CarryForwardRecord) RecordResponse {
	return RecordResponse{
		ID:          rec.ID.String(),
		EmployeeID:  rec.EmployeeID.String(),
		LeaveTypeID: rec.LeaveTypeID.String(),
		FromYear:    rec.FromYear,
		ToYear:      rec.ToYear,
		CarriedDays: rec.CarriedDays,
		ExpiryDate:  rec.ExpiryDate,
		IsExpired:   rec.IsExpired,
		CreatedAt:   rec.CreatedAt,
	}
}
