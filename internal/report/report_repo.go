package report

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	LeaveSummary(ctx context.Context, year int) ([]LeaveSummaryRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const leaveSummaryQuery = `
SELECT
	lb.employee_id::text         AS employee_id,
	e.first_name || ' ' || e.last_name AS employee_name,
	lt.name                       AS leave_type_name,
	lb.year                       AS year,
	lb.total_days                 AS total_days,
	lb.used_days                  AS used_days,
	lb.total_days - lb.used_days  AS remaining_days,
	COALESCE(lr.approved_count, 0) AS approved_requests
FROM leave_balances lb
JOIN employees e   ON e.id = lb.employee_id
JOIN leave_types lt ON lt.id = lb.leave_type_id
LEFT JOIN (
	SELECT employee_id, leave_type_id, COUNT(*) AS approved_count
	FROM leave_requests
	WHERE status = 'APPROVED'
		AND EXTRACT(YEAR FROM start_date) = ?
	GROUP BY employee_id, leave_type_id
) lr ON lr.employee_id = lb.employee_id AND lr.leave_type_id = lb.leave_type_id
WHERE lb.year = ?
ORDER BY employee_name ASC, leave_type_name ASC
`

func (r *repository) LeaveSummary(ctx context.Context, year int) ([]LeaveSummaryRow, error) {
	var rows []LeaveSummaryRow
	err := r.db.WithContext(ctx).Raw(leaveSummaryQuery, year, year).Scan(&rows).Error
	return rows, err
}
