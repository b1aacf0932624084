package balance

import (
	"context"
	"errors"

	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaveTypeSource lists the active leave types used to seed new balances.
type LeaveTypeSource interface {
	FindActive(ctx context.Context) ([]leavetype.LeaveType, error)
	FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	HasSufficientBalance(ctx context.Context, employeeID, leaveTypeID string, daysRequested int) (bool, error)
	Adjust(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error)
	InitializeForEmployee(ctx context.Context, employeeID string) (int, error)

	// Deduct and Restore mutate a bucket inside the caller's transaction so
	// workflow transitions and ledger movement commit together. A missing
	// bucket is an error, never a silent no-op.
	Deduct(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error
	Restore(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error
}

type service struct {
	db         *gorm.DB
	repo       Repository
	leaveTypes LeaveTypeSource
	clk        clock.Clock
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	leaveTypes LeaveTypeSource,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		leaveTypes: leaveTypes,
		clk:        clk,
		logger:     l,
	}
}

func (s *service) GetEmployeeBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if year == 0 {
		year = s.clk.Now().Year()
	}

	balances, err := s.repo.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if types, err := s.leaveTypes.FindActive(ctx); err == nil {
		for _, lt := range types {
			names[lt.ID.String()] = lt.Name
		}
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
		resp[i].LeaveTypeName = names[b.LeaveTypeID.String()]
	}
	return resp, nil
}

func (s *service) HasSufficientBalance(ctx context.Context, employeeID, leaveTypeID string, daysRequested int) (bool, error) {
	b, err := s.repo.FindBucket(ctx, employeeID, leaveTypeID, s.clk.Now().Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return b.Remaining() >= daysRequested, nil
}

func (s *service) Adjust(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error) {
	if req.TotalDays < 0 {
		return BalanceResponse{}, balanceerrors.ErrNegativeTotal
	}

	b, err := s.repo.FindBucket(ctx, req.EmployeeID, req.LeaveTypeID, req.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}

	// Admin override. used <= total is deliberately not re-checked here;
	// an adjustment below current usage stands and shows up as a negative
	// remaining figure.
	b.TotalDays = req.TotalDays
	if err := s.repo.Update(ctx, b); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("balance adjusted",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.Int("total_days", req.TotalDays),
	)
	return mapToResponse(*b), nil
}

func (s *service) InitializeForEmployee(ctx context.Context, employeeID string) (int, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return 0, balanceerrors.ErrInvalidEmployeeID
	}

	types, err := s.leaveTypes.FindActive(ctx)
	if err != nil {
		return 0, err
	}

	year := s.clk.Now().Year()
	created := 0

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, lt := range types {
			_, err := txRepo.FindBucket(ctx, employeeID, lt.ID.String(), year)
			if err == nil {
				continue // already seeded
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			b := &LeaveBalance{
				ID:          uuid.New(),
				EmployeeID:  empID,
				LeaveTypeID: lt.ID,
				Year:        year,
				TotalDays:   lt.DefaultDays,
				UsedDays:    0,
			}
			if err := txRepo.Create(ctx, b); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("balances initialized",
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("created", created),
	)
	return created, nil
}

func (s *service) Deduct(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	txRepo := s.repo.WithTx(tx)
	b, err := txRepo.FindBucket(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotFound
		}
		return err
	}

	b.UsedDays += days
	if err := txRepo.Update(ctx, b); err != nil {
		return err
	}

	s.logger.Info("balance deducted",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Int("days", days),
		zap.Int("used_days", b.UsedDays),
	)
	return nil
}

func (s *service) Restore(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error {
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	txRepo := s.repo.WithTx(tx)
	b, err := txRepo.FindBucket(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return balanceerrors.ErrBalanceNotFound
		}
		return err
	}

	b.UsedDays -= days
	if b.UsedDays < 0 {
		b.UsedDays = 0
	}
	if err := txRepo.Update(ctx, b); err != nil {
		return err
	}

	s.logger.Info("balance restored",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Int("days", days),
		zap.Int("used_days", b.UsedDays),
	)
	return nil
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.Remaining(),
	}
}
