package request

import (
	"context"
	"errors"
	"time"

	"leavedesk/internal/events"
	requesterrors "leavedesk/internal/request/errors"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceChecker answers whether the current-year bucket can cover a new
// request. Implemented by the balance service.
type BalanceChecker interface {
	HasSufficientBalance(ctx context.Context, employeeID, leaveTypeID string, daysRequested int) (bool, error)
}

// BalanceRestorer compensates a cancelled approved request inside the
// cancellation transaction.
type BalanceRestorer interface {
	Restore(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error
}

// WorkflowInitiator builds the approval chain for a freshly created request.
type WorkflowInitiator interface {
	Initiate(ctx context.Context, requestID string) (int, error)
}

// StepPurger removes a request's approval steps when the request is deleted.
type StepPurger interface {
	DeleteByRequestID(ctx context.Context, tx *gorm.DB, requestID string) error
}

// DecisionPublisher enqueues terminal-decision events for async delivery.
// Cancellation is a terminal state, so cancels publish alongside workflow
// approvals and rejections. Best effort; failures are logged and swallowed.
type DecisionPublisher interface {
	PublishLeaveDecided(ctx context.Context, ev events.LeaveDecidedEvent) error
}

type noopDecisionPublisher struct{}

func (noopDecisionPublisher) PublishLeaveDecided(context.Context, events.LeaveDecidedEvent) error {
	return nil
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	GetPending(ctx context.Context) ([]LeaveRequestResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, id string) (LeaveRequestResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *gorm.DB
	repo      Repository
	balances  BalanceChecker
	restorer  BalanceRestorer
	workflow  WorkflowInitiator
	steps     StepPurger
	publisher DecisionPublisher
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balances BalanceChecker,
	restorer BalanceRestorer,
	workflow WorkflowInitiator,
	steps StepPurger,
	publisher DecisionPublisher,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	if publisher == nil {
		publisher = noopDecisionPublisher{}
	}
	return &service{
		db:        db,
		repo:      repo,
		balances:  balances,
		restorer:  restorer,
		workflow:  workflow,
		steps:     steps,
		publisher: publisher,
		clk:       clk,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	today := s.clk.Now().Truncate(24 * time.Hour)
	if startDate.Before(today) {
		return LeaveRequestResponse{}, requesterrors.ErrStartDateInPast
	}

	exists, err := s.repo.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !exists {
		return LeaveRequestResponse{}, requesterrors.ErrEmployeeNotFound
	}

	exists, err = s.repo.LeaveTypeExists(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !exists {
		return LeaveRequestResponse{}, requesterrors.ErrLeaveTypeNotFound
	}

	overlap, err := s.repo.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		s.logger.Warn("leave request overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, requesterrors.ErrOverlappingRequest
	}

	totalDays := BusinessDays(startDate, endDate)
	if totalDays == 0 {
		return LeaveRequestResponse{}, requesterrors.ErrNoBusinessDays
	}

	sufficient, err := s.balances.HasSufficientBalance(ctx, req.EmployeeID, req.LeaveTypeID, totalDays)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !sufficient {
		return LeaveRequestResponse{}, requesterrors.ErrInsufficientBalance
	}

	lr := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		LeaveTypeID: uuid.MustParse(req.LeaveTypeID),
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// Workflow initiation is recoverable: a request without steps can be
	// re-initiated through the approvals API.
	if steps, err := s.workflow.Initiate(ctx, lr.ID.String()); err != nil {
		s.logger.Warn("initiate workflow failed",
			zap.String("request_id", lr.ID.String()),
			zap.Error(err),
		)
	} else {
		s.logger.Info("workflow initiated",
			zap.String("request_id", lr.ID.String()),
			zap.Int("steps", steps),
		)
	}

	s.logger.Info("leave request created",
		zap.String("request_id", lr.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", totalDays),
	)
	return mapToResponse(*lr), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveRequest) (LeaveRequestResponse, error) {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, requesterrors.ErrNotPending
	}

	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	exists, err := s.repo.LeaveTypeExists(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !exists {
		return LeaveRequestResponse{}, requesterrors.ErrLeaveTypeNotFound
	}

	excludeID := lr.ID.String()
	overlap, err := s.repo.HasOverlappingPeriod(ctx, lr.EmployeeID.String(), startDate, endDate, &excludeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		return LeaveRequestResponse{}, requesterrors.ErrOverlappingRequest
	}

	totalDays := BusinessDays(startDate, endDate)
	if totalDays == 0 {
		return LeaveRequestResponse{}, requesterrors.ErrNoBusinessDays
	}

	lr.LeaveTypeID = uuid.MustParse(req.LeaveTypeID)
	lr.StartDate = startDate
	lr.EndDate = endDate
	lr.TotalDays = totalDays
	lr.Reason = req.Reason

	if err := s.repo.Update(ctx, lr); err != nil {
		s.logger.Error("update leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	return mapToResponse(*lr), nil
}

// Cancel moves a pending or approved request to CANCELLED. Cancelling an
// approved request restores the previously deducted days in the same
// transaction; cancelling a pending one touches no balance because nothing
// was ever deducted.
func (s *service) Cancel(ctx context.Context, id string) (LeaveRequestResponse, error) {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	if lr.Status == StatusCancelled {
		return LeaveRequestResponse{}, requesterrors.ErrAlreadyCancelled
	}
	if !IsAllowedStatusTransition(lr.Status, StatusCancelled) {
		return LeaveRequestResponse{}, requesterrors.ErrInvalidStatusTransition
	}

	wasApproved := lr.Status == StatusApproved

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if wasApproved {
			if err := s.restorer.Restore(
				ctx, tx,
				lr.EmployeeID.String(),
				lr.LeaveTypeID.String(),
				lr.StartDate.Year(),
				lr.TotalDays,
			); err != nil {
				return err
			}
		}

		lr.Status = StatusCancelled
		return s.repo.WithTx(tx).Update(ctx, lr)
	})
	if err != nil {
		s.logger.Error("cancel leave request failed", zap.String("request_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.publisher.PublishLeaveDecided(ctx, events.LeaveDecidedEvent{
		EventType:  "leave_request.decided",
		RequestID:  lr.ID.String(),
		EmployeeID: lr.EmployeeID.String(),
		Status:     StatusCancelled,
		TotalDays:  lr.TotalDays,
		OccurredAt: s.clk.Now(),
	}); err != nil {
		s.logger.Warn("publish leave decision event failed",
			zap.String("request_id", id),
			zap.Error(err),
		)
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", id),
		zap.Bool("balance_restored", wasApproved),
	)
	return mapToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	lr, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	// A request owns its approval steps; removing one removes both.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.steps.DeleteByRequestID(ctx, tx, lr.ID.String()); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, lr.ID.String())
	})
}

func (s *service) findByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requesterrors.ErrRequestNotFound
		}
		return nil, err
	}
	return lr, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          lr.ID.String(),
		EmployeeID:  lr.EmployeeID.String(),
		LeaveTypeID: lr.LeaveTypeID.String(),
		StartDate:   lr.StartDate.Format("2006-01-02"),
		EndDate:     lr.EndDate.Format("2006-01-02"),
		TotalDays:   lr.TotalDays,
		Reason:      lr.Reason,
		Status:      lr.Status,
		CreatedAt:   lr.CreatedAt.Format(time.RFC3339),
	}
	if lr.ApprovedByID != nil {
		v := lr.ApprovedByID.String()
		resp.ApprovedBy = &v
	}
	if lr.ApprovedAt != nil {
		v := lr.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.ApproverComments = lr.ApproverComments
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}
