package report

// LeaveSummaryRow is one employee and leave type pairing in the yearly
// summary.
type LeaveSummaryRow struct {
	EmployeeID       string `json:"employee_id" gorm:"column:employee_id"`
	EmployeeName     string `json:"employee_name" gorm:"column:employee_name"`
	LeaveTypeName    string `json:"leave_type_name" gorm:"column:leave_type_name"`
	Year             int    `json:"year" gorm:"column:year"`
	TotalDays        int    `json:"total_days" gorm:"column:total_days"`
	UsedDays         int    `json:"used_days" gorm:"column:used_days"`
	RemainingDays    int    `json:"remaining_days" gorm:"column:remaining_days"`
	ApprovedRequests int    `json:"approved_requests" gorm:"column:approved_requests"`
}
