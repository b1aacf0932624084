package approval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBatch(ctx context.Context, steps []ApprovalStep) error
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalStep, error)
	FindByRequestID(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error)
	FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]ApprovalStep, error)
	CountByRequestID(ctx context.Context, requestID uuid.UUID) (int64, error)

	// UpdateStatusIfPending flips the step status only while it is still
	// PENDING, returning false when another actor got there first.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string, comments *string, actionDate time.Time) (bool, error)

	MarkSkippedAfter(ctx context.Context, requestID uuid.UUID, afterOrder int) error
	DeleteByRequestID(ctx context.Context, tx *gorm.DB, requestID string) error
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

func (r *repository) CreateBatch(ctx context.Context, steps []ApprovalStep) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*ApprovalStep, error) {
	var step ApprovalStep
	if err := r.db.WithContext(ctx).First(&step, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) FindByRequestID(ctx context.Context, requestID uuid.UUID) ([]ApprovalStep, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", requestID).
		Order("step_order ASC").
		Find(&steps).Error
	return steps, err
}

func (r *repository) FindPendingByApprover(ctx context.Context, approverID uuid.UUID) ([]ApprovalStep, error) {
	var steps []ApprovalStep
	err := r.db.WithContext(ctx).
		Where("approver_id = ? AND status = ?", approverID, StepPending).
		Order("created_at ASC").
		Find(&steps).Error
	return steps, err
}

func (r *repository) CountByRequestID(ctx context.Context, requestID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ApprovalStep{}).
		Where("leave_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string, comments *string, actionDate time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ApprovalStep{}).
		Where("id = ? AND status = ?", id, StepPending).
		Updates(map[string]interface{}{
			"status":      status,
			"comments":    comments,
			"action_date": actionDate,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkSkippedAfter(ctx context.Context, requestID uuid.UUID, afterOrder int) error {
	return r.db.WithContext(ctx).
		Model(&ApprovalStep{}).
		Where("leave_request_id = ? AND step_order > ? AND status = ?", requestID, afterOrder, StepPending).
		Update("status", StepSkipped).Error
}

func (r *repository) DeleteByRequestID(ctx context.Context, tx *gorm.DB, requestID string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Where("leave_request_id = ?", requestID).
		Delete(&ApprovalStep{}).Error
}
