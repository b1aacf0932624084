package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	approvalerrors "leavedesk/internal/approval/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	"leavedesk/internal/events"
	"leavedesk/internal/request"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceLedger deducts leave days inside the workflow's transaction so the
// final approval and the balance movement commit atomically.
type BalanceLedger interface {
	Deduct(ctx context.Context, tx *gorm.DB, employeeID, leaveTypeID string, year, days int) error
}

// Notifier delivers best-effort notifications. Implementations log their own
// failures; the workflow never blocks on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, category, link string)
}

// DecisionPublisher enqueues terminal-decision events for async delivery.
// Failures are logged and swallowed; a decision never depends on the broker.
type DecisionPublisher interface {
	PublishLeaveDecided(ctx context.Context, ev events.LeaveDecidedEvent) error
}

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	// Initiate builds the approval chain for a freshly created request and
	// returns the number of steps created. Zero steps is a valid outcome
	// when no manager or admin exists to approve.
	Initiate(ctx context.Context, requestID string) (int, error)

	ProcessStep(ctx context.Context, approverID, stepID string, req ProcessStepRequest) (StepResponse, error)
	GetPendingApprovals(ctx context.Context, approverID string) ([]StepResponse, error)
	GetSteps(ctx context.Context, requestID string) ([]StepResponse, error)
}

type service struct {
	db        *gorm.DB
	steps     Repository
	requests  request.Repository
	employees employee.Repository
	ledger    BalanceLedger
	notifier  Notifier
	publisher DecisionPublisher
	clk       clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	steps Repository,
	requests request.Repository,
	employees employee.Repository,
	ledger BalanceLedger,
	notifier Notifier,
	publisher DecisionPublisher,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	if publisher == nil {
		publisher = NewNoopDecisionPublisher()
	}
	return &service{
		db:        db,
		steps:     steps,
		requests:  requests,
		employees: employees,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		clk:       clk,
		logger:    l,
	}
}

func (s *service) Initiate(ctx context.Context, requestID string) (int, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return 0, approvalerrors.ErrRequestNotFound
	}

	lr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, approvalerrors.ErrRequestNotFound
		}
		return 0, err
	}

	existing, err := s.steps.CountByRequestID(ctx, reqID)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, approvalerrors.ErrWorkflowAlreadyInitiated
	}

	approvers, err := s.resolveChain(ctx, lr.EmployeeID.String())
	if err != nil {
		return 0, err
	}

	steps := make([]ApprovalStep, 0, len(approvers))
	for i, approverID := range approvers {
		steps = append(steps, ApprovalStep{
			ID:             uuid.New(),
			LeaveRequestID: reqID,
			ApproverID:     approverID,
			StepOrder:      i + 1,
			Status:         StepPending,
		})
	}
	if err := s.steps.CreateBatch(ctx, steps); err != nil {
		return 0, err
	}

	if len(steps) > 0 {
		s.notifier.Notify(ctx,
			steps[0].ApproverID.String(),
			"Leave request awaiting your approval",
			fmt.Sprintf("A leave request (%s to %s, %d day(s)) needs your review.",
				lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"), lr.TotalDays),
			"approval",
			"/approvals/pending",
		)
	} else {
		s.logger.Warn("no approvers available, workflow created with zero steps",
			zap.String("request_id", requestID),
		)
	}

	s.logger.Info("approval workflow initiated",
		zap.String("request_id", requestID),
		zap.Int("steps", len(steps)),
	)
	return len(steps), nil
}

// resolveChain walks the manager chain up to two levels and falls back to
// the first admin when the employee has no managers at all.
func (s *service) resolveChain(ctx context.Context, employeeID string) ([]uuid.UUID, error) {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approvalerrors.ErrRequestNotFound
		}
		return nil, err
	}

	var chain []uuid.UUID
	if emp.ManagerID != nil {
		chain = append(chain, *emp.ManagerID)

		mgr, err := s.employees.FindByID(ctx, emp.ManagerID.String())
		if err == nil && mgr.ManagerID != nil {
			chain = append(chain, *mgr.ManagerID)
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if len(chain) == 0 {
		admin, err := s.employees.FindFirstByRole(ctx, domain.RoleAdmin)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		chain = append(chain, admin.ID)
	}
	return chain, nil
}

func (s *service) ProcessStep(ctx context.Context, approverID, stepID string, req ProcessStepRequest) (StepResponse, error) {
	stepUUID, err := uuid.Parse(stepID)
	if err != nil {
		return StepResponse{}, approvalerrors.ErrStepNotFound
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return StepResponse{}, approvalerrors.ErrNotStepApprover
	}

	now := s.clk.Now()
	var (
		processed   *ApprovalStep
		notifyAfter func()
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txSteps := s.steps.WithTx(tx)
		txRequests := s.requests.WithTx(tx)

		step, err := txSteps.FindByID(ctx, stepUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return approvalerrors.ErrStepNotFound
			}
			return err
		}
		if step.ApproverID != approverUUID {
			return approvalerrors.ErrNotStepApprover
		}
		if step.Status != StepPending {
			return approvalerrors.ErrStepAlreadyProcessed
		}

		siblings, err := txSteps.FindByRequestID(ctx, step.LeaveRequestID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if sib.StepOrder < step.StepOrder && sib.Status != StepApproved {
				return approvalerrors.ErrPrecedenceViolation
			}
		}

		lr, err := txRequests.FindByID(ctx, step.LeaveRequestID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return approvalerrors.ErrRequestNotFound
			}
			return err
		}
		if lr.Status != request.StatusPending {
			return approvalerrors.ErrRequestNotPending
		}

		newStatus := StepApproved
		if !req.Approved {
			newStatus = StepRejected
		}

		ok, err := txSteps.UpdateStatusIfPending(ctx, step.ID, newStatus, req.Comments, now)
		if err != nil {
			return err
		}
		if !ok {
			return approvalerrors.ErrStepAlreadyProcessed
		}
		step.Status = newStatus
		step.Comments = req.Comments
		step.ActionDate = &now
		processed = step

		if !req.Approved {
			return s.finalizeRejection(ctx, txSteps, txRequests, lr, step, now, &notifyAfter)
		}
		return s.advanceOrFinalize(ctx, tx, txRequests, lr, step, siblings, now, &notifyAfter)
	})
	if err != nil {
		return StepResponse{}, err
	}

	if notifyAfter != nil {
		notifyAfter()
	}
	return toStepResponse(processed), nil
}

func (s *service) finalizeRejection(
	ctx context.Context,
	txSteps Repository,
	txRequests request.Repository,
	lr *request.LeaveRequest,
	step *ApprovalStep,
	now time.Time,
	notifyAfter *func(),
) error {
	if err := txSteps.MarkSkippedAfter(ctx, step.LeaveRequestID, step.StepOrder); err != nil {
		return err
	}

	lr.Status = request.StatusRejected
	lr.ApprovedByID = &step.ApproverID
	lr.ApprovedAt = &now
	lr.ApproverComments = step.Comments
	if err := txRequests.Update(ctx, lr); err != nil {
		return err
	}

	employeeID := lr.EmployeeID.String()
	requestID := lr.ID.String()
	totalDays := lr.TotalDays
	*notifyAfter = func() {
		s.notifier.Notify(ctx,
			employeeID,
			"Leave request rejected",
			"Your leave request has been rejected.",
			"leave",
			"/leave-requests/"+requestID,
		)
		s.publishDecision(ctx, requestID, employeeID, request.StatusRejected, totalDays)
	}

	s.logger.Info("leave request rejected",
		zap.String("request_id", lr.ID.String()),
		zap.String("approver_id", step.ApproverID.String()),
		zap.Int("step_order", step.StepOrder),
	)
	return nil
}

func (s *service) advanceOrFinalize(
	ctx context.Context,
	tx *gorm.DB,
	txRequests request.Repository,
	lr *request.LeaveRequest,
	step *ApprovalStep,
	siblings []ApprovalStep,
	now time.Time,
	notifyAfter *func(),
) error {
	var next *ApprovalStep
	for i := range siblings {
		if siblings[i].StepOrder > step.StepOrder && siblings[i].Status == StepPending {
			next = &siblings[i]
			break
		}
	}

	if next != nil {
		nextApprover := next.ApproverID.String()
		requestID := lr.ID.String()
		*notifyAfter = func() {
			s.notifier.Notify(ctx,
				nextApprover,
				"Leave request awaiting your approval",
				"A leave request has cleared an earlier step and now needs your review.",
				"approval",
				"/approvals/pending",
			)
		}
		s.logger.Info("approval step cleared, advancing",
			zap.String("request_id", requestID),
			zap.Int("step_order", step.StepOrder),
			zap.Int("next_step_order", next.StepOrder),
		)
		return nil
	}

	// Final step approved: promote the request and deduct the balance in
	// the same transaction, keyed to the year the leave starts in.
	comments := "Approved through multi-level workflow"
	lr.Status = request.StatusApproved
	lr.ApprovedByID = &step.ApproverID
	lr.ApprovedAt = &now
	lr.ApproverComments = &comments
	if err := txRequests.Update(ctx, lr); err != nil {
		return err
	}

	if err := s.ledger.Deduct(ctx, tx,
		lr.EmployeeID.String(),
		lr.LeaveTypeID.String(),
		lr.StartDate.Year(),
		lr.TotalDays,
	); err != nil {
		return err
	}

	employeeID := lr.EmployeeID.String()
	requestID := lr.ID.String()
	totalDays := lr.TotalDays
	*notifyAfter = func() {
		s.notifier.Notify(ctx,
			employeeID,
			"Leave request approved",
			"Your leave request has been fully approved.",
			"leave",
			"/leave-requests/"+requestID,
		)
		s.publishDecision(ctx, requestID, employeeID, request.StatusApproved, totalDays)
	}

	s.logger.Info("leave request fully approved",
		zap.String("request_id", lr.ID.String()),
		zap.String("approver_id", step.ApproverID.String()),
		zap.Int("days_deducted", lr.TotalDays),
	)
	return nil
}

func (s *service) publishDecision(ctx context.Context, requestID, employeeID, status string, totalDays int) {
	err := s.publisher.PublishLeaveDecided(ctx, events.LeaveDecidedEvent{
		EventType:  "leave_request.decided",
		RequestID:  requestID,
		EmployeeID: employeeID,
		Status:     status,
		TotalDays:  totalDays,
		OccurredAt: s.clk.Now(),
	})
	if err != nil {
		s.logger.Warn("publish leave decision event failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

func (s *service) GetPendingApprovals(ctx context.Context, approverID string) ([]StepResponse, error) {
	id, err := uuid.Parse(approverID)
	if err != nil {
		return nil, approvalerrors.ErrNotStepApprover
	}
	steps, err := s.steps.FindPendingByApprover(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStepResponses(steps), nil
}

func (s *service) GetSteps(ctx context.Context, requestID string) ([]StepResponse, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, approvalerrors.ErrRequestNotFound
	}
	steps, err := s.steps.FindByRequestID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStepResponses(steps), nil
}
