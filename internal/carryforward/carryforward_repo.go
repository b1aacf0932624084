package carryforward

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, rec *CarryForwardRecord) error
	Update(ctx context.Context, rec *CarryForwardRecord) error
	FindByBucketPair(ctx context.Context, employeeID, leaveTypeID string, fromYear, toYear int) (*CarryForwardRecord, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]CarryForwardRecord, error)
	FindExpiring(ctx context.Context, onOrBefore time.Time) ([]CarryForwardRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rec *CarryForwardRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Update(ctx context.Context, rec *CarryForwardRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindByBucketPair(ctx context.Context, employeeID, leaveTypeID string, fromYear, toYear int) (*CarryForwardRecord, error) {
	var rec CarryForwardRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ? AND from_year = ? AND to_year = ?",
			employeeID, leaveTypeID, fromYear, toYear).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]CarryForwardRecord, error) {
	var recs []CarryForwardRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("from_year DESC, created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindExpiring(ctx context.Context, onOrBefore time.Time) ([]CarryForwardRecord, error) {
	var recs []CarryForwardRecord
	err := r.db.WithContext(ctx).
		Where("is_expired = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", false, onOrBefore).
		Find(&recs).Error
	return recs, err
}
