package holiday

import "time"

type CreateHolidayRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	IsRecurring bool   `json:"is_recurring"`
}

type UpdateHolidayRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=150"`
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	IsRecurring *bool   `json:"is_recurring"`
	IsActive    *bool   `json:"is_active"`
}

type HolidayResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	IsRecurring bool      `json:"is_recurring"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkingDaysResponse struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
}

func toResponse(h *Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		IsRecurring: h.IsRecurring,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
	}
}
