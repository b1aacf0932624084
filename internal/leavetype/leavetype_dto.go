package leavetype

type CreateLeaveTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DefaultDays int    `json:"default_days" binding:"required"`
}

type UpdateLeaveTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DefaultDays int    `json:"default_days" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DefaultDays int    `json:"default_days"`
	IsActive    bool   `json:"is_active"`
}
