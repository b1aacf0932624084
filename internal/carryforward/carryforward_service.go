package carryforward

import (
	"context"
	"errors"
	"time"

	"leavedesk/internal/balance"
	carryforwarderrors "leavedesk/internal/carryforward/errors"
	"leavedesk/internal/employee"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultCapFor is the policy cap applied when the caller does not supply
// one: half the annual allocation, never more than five days.
func defaultCapFor(lt *leavetype.LeaveType) int {
	capDays := lt.DefaultDays / 2
	if capDays > 5 {
		capDays = 5
	}
	return capDays
}

// expiryFor gives carried days a use-by date of March 31st in the target
// year.
func expiryFor(toYear int) time.Time {
	return time.Date(toYear, time.March, 31, 0, 0, 0, 0, time.UTC)
}

//go:generate mockgen -source=carryforward_service.go -destination=mock/carryforward_service_mock.go -package=mock
type Service interface {
	Process(ctx context.Context, req ProcessRequest) (RecordResponse, error)
	ProcessYearEnd(ctx context.Context, fromYear int) (YearEndSummary, error)
	ExpireOutstanding(ctx context.Context) (ExpirySummary, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]RecordResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	balances   balance.Repository
	leaveTypes leavetype.Repository
	employees  employee.Repository
	clk        clock.Clock
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balances balance.Repository,
	leaveTypes leavetype.Repository,
	employees employee.Repository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("carryforward.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("carryforward.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		balances:   balances,
		leaveTypes: leaveTypes,
		employees:  employees,
		clk:        clk,
		logger:     l,
	}
}

func (s *service) Process(ctx context.Context, req ProcessRequest) (RecordResponse, error) {
	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return RecordResponse{}, carryforwarderrors.ErrInvalidEmployeeID
	}
	typeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return RecordResponse{}, carryforwarderrors.ErrInvalidLeaveTypeID
	}

	toYear := req.ToYear
	if toYear == 0 {
		toYear = req.FromYear + 1
	}
	if toYear <= req.FromYear {
		return RecordResponse{}, carryforwarderrors.ErrInvalidYearPair
	}

	expiry := expiryFor(toYear)
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return RecordResponse{}, carryforwarderrors.ErrInvalidExpiryDate
		}
		expiry = parsed
	}

	if _, err := s.repo.FindByBucketPair(ctx, req.EmployeeID, req.LeaveTypeID, req.FromYear, toYear); err == nil {
		return RecordResponse{}, carryforwarderrors.ErrAlreadyProcessed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return RecordResponse{}, err
	}

	source, err := s.balances.FindBucket(ctx, req.EmployeeID, req.LeaveTypeID, req.FromYear)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, carryforwarderrors.ErrSourceBalanceNotFound
		}
		return RecordResponse{}, err
	}

	lt, err := s.leaveTypes.FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, carryforwarderrors.ErrInvalidLeaveTypeID
		}
		return RecordResponse{}, err
	}

	capDays := req.MaxDays
	if capDays <= 0 {
		capDays = defaultCapFor(lt)
	}

	carry := source.Remaining()
	if carry > capDays {
		carry = capDays
	}
	if carry <= 0 {
		return RecordResponse{}, carryforwarderrors.ErrNothingToCarry
	}

	rec := &CarryForwardRecord{
		ID:          uuid.New(),
		EmployeeID:  empID,
		LeaveTypeID: typeID,
		FromYear:    req.FromYear,
		ToYear:      toYear,
		CarriedDays: carry,
		ExpiryDate:  &expiry,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txBalances := s.balances.WithTx(tx)

		if err := txRepo.Create(ctx, rec); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return carryforwarderrors.ErrAlreadyProcessed
			}
			return err
		}

		target, err := txBalances.FindBucket(ctx, req.EmployeeID, req.LeaveTypeID, toYear)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// No target bucket yet: seed it with the annual allocation plus
			// the carried days.
			return txBalances.Create(ctx, &balance.LeaveBalance{
				ID:          uuid.New(),
				EmployeeID:  empID,
				LeaveTypeID: typeID,
				Year:        toYear,
				TotalDays:   lt.DefaultDays + carry,
				UsedDays:    0,
			})
		}

		target.TotalDays += carry
		return txBalances.Update(ctx, target)
	})
	if err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("carry-forward processed",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("from_year", req.FromYear),
		zap.Int("to_year", toYear),
		zap.Int("carried_days", carry),
	)
	return toRecordResponse(rec), nil
}

func (s *service) ProcessYearEnd(ctx context.Context, fromYear int) (YearEndSummary, error) {
	summary := YearEndSummary{FromYear: fromYear, ToYear: fromYear + 1}

	employees, err := s.employees.FindActive(ctx)
	if err != nil {
		return summary, err
	}
	types, err := s.leaveTypes.FindActive(ctx)
	if err != nil {
		return summary, err
	}

	for _, emp := range employees {
		for _, lt := range types {
			_, err := s.Process(ctx, ProcessRequest{
				EmployeeID:  emp.ID.String(),
				LeaveTypeID: lt.ID.String(),
				FromYear:    fromYear,
			})
			switch {
			case err == nil:
				summary.Processed++
			case errors.Is(err, carryforwarderrors.ErrAlreadyProcessed),
				errors.Is(err, carryforwarderrors.ErrSourceBalanceNotFound),
				errors.Is(err, carryforwarderrors.ErrNothingToCarry):
				summary.Skipped++
			default:
				summary.Failed++
				s.logger.Warn("year-end carry-forward failed for bucket",
					zap.String("employee_id", emp.ID.String()),
					zap.String("leave_type_id", lt.ID.String()),
					zap.Int("from_year", fromYear),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Info("year-end carry-forward finished",
		zap.Int("from_year", fromYear),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *service) ExpireOutstanding(ctx context.Context) (ExpirySummary, error) {
	var summary ExpirySummary

	due, err := s.repo.FindExpiring(ctx, s.clk.Now())
	if err != nil {
		return summary, err
	}

	for i := range due {
		rec := due[i]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			txBalances := s.balances.WithTx(tx)

			rec.IsExpired = true
			if err := txRepo.Update(ctx, &rec); err != nil {
				return err
			}

			target, err := txBalances.FindBucket(ctx,
				rec.EmployeeID.String(), rec.LeaveTypeID.String(), rec.ToYear)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil // bucket gone, nothing to reclaim
				}
				return err
			}

			// Only reclaim when the credit is still intact; days already
			// consumed stay consumed.
			if target.TotalDays >= rec.CarriedDays {
				target.TotalDays -= rec.CarriedDays
				if err := txBalances.Update(ctx, target); err != nil {
					return err
				}
				summary.Reclaimed += rec.CarriedDays
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("carry-forward expiry failed",
				zap.String("record_id", rec.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.Expired++
	}

	s.logger.Info("carry-forward expiry sweep finished",
		zap.Int("expired", summary.Expired),
		zap.Int("reclaimed_days", summary.Reclaimed),
	)
	return summary, nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]RecordResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, carryforwarderrors.ErrInvalidEmployeeID
	}
	recs, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]RecordResponse, 0, len(recs))
	for i := range recs {
		out = append(out, toRecordResponse(&recs[i]))
	}
	return out, nil
}
