package request_test

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/approval"
	"leavedesk/internal/balance"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	"leavedesk/internal/events"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/request"
	requesterrors "leavedesk/internal/request/errors"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeInitiator struct {
	requestIDs []string
}

func (f *fakeInitiator) Initiate(_ context.Context, requestID string) (int, error) {
	f.requestIDs = append(f.requestIDs, requestID)
	return 1, nil
}

type fakeDecisionPublisher struct {
	decided []events.LeaveDecidedEvent
}

func (f *fakeDecisionPublisher) PublishLeaveDecided(_ context.Context, ev events.LeaveDecidedEvent) error {
	f.decided = append(f.decided, ev)
	return nil
}

type requestFixture struct {
	db        *gorm.DB
	repo      request.Repository
	steps     approval.Repository
	balances  balance.Repository
	initiator *fakeInitiator
	publisher *fakeDecisionPublisher
	service   request.Service
	clk       clock.Fixed
	empID     uuid.UUID
	typeID    uuid.UUID
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&employee.Employee{},
		&leavetype.LeaveType{},
		&balance.LeaveBalance{},
		&request.LeaveRequest{},
		&approval.ApprovalStep{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	clk := clock.Fixed{T: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	requestRepo := request.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	leaveTypeRepo := leavetype.NewRepository(db)
	stepRepo := approval.NewRepository(db)
	balanceService := balance.NewService(db, balanceRepo, leaveTypeRepo, clk)
	initiator := &fakeInitiator{}
	publisher := &fakeDecisionPublisher{}

	emp := &employee.Employee{
		ID:           uuid.New(),
		FirstName:    "Dina",
		LastName:     "Putri",
		Email:        "dina.putri@example.com",
		PasswordHash: "x",
		Role:         domain.RoleEmployee,
		HireDate:     clk.T.AddDate(-2, 0, 0),
		IsActive:     true,
	}
	if err := employee.NewRepository(db).Create(context.Background(), emp); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	lt := &leavetype.LeaveType{
		ID:          uuid.New(),
		Name:        "Annual Leave",
		DefaultDays: 12,
		IsActive:    true,
	}
	if err := leaveTypeRepo.Create(context.Background(), lt); err != nil {
		t.Fatalf("create leave type: %v", err)
	}

	err = balanceRepo.Create(context.Background(), &balance.LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  emp.ID,
		LeaveTypeID: lt.ID,
		Year:        2025,
		TotalDays:   12,
		UsedDays:    0,
	})
	if err != nil {
		t.Fatalf("create balance: %v", err)
	}

	return &requestFixture{
		db:        db,
		repo:      requestRepo,
		steps:     stepRepo,
		balances:  balanceRepo,
		initiator: initiator,
		publisher: publisher,
		service: request.NewService(
			db, requestRepo, balanceService, balanceService, initiator, stepRepo, publisher, clk,
		),
		clk:    clk,
		empID:  emp.ID,
		typeID: lt.ID,
	}
}

func (fx *requestFixture) createReq(start, end string) request.CreateLeaveRequest {
	return request.CreateLeaveRequest{
		EmployeeID:  fx.empID.String(),
		LeaveTypeID: fx.typeID.String(),
		StartDate:   start,
		EndDate:     end,
		Reason:      "family matters",
	}
}

func (fx *requestFixture) seedRequest(t *testing.T, start, end string, totalDays int, status string) uuid.UUID {
	t.Helper()
	startDate, _ := time.Parse("2006-01-02", start)
	endDate, _ := time.Parse("2006-01-02", end)
	lr := &request.LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  fx.empID,
		LeaveTypeID: fx.typeID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Status:      status,
	}
	if err := fx.repo.Create(context.Background(), lr); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return lr.ID
}

func TestService_Create(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()

	resp, err := fx.service.Create(ctx, fx.createReq("2025-06-09", "2025-06-11"))
	assert.NoError(t, err)
	assert.Equal(t, request.StatusPending, resp.Status)
	assert.Equal(t, 3, resp.TotalDays)

	// the workflow is kicked off for the new request
	if assert.Len(t, fx.initiator.requestIDs, 1) {
		assert.Equal(t, resp.ID, fx.initiator.requestIDs[0])
	}
}

func TestService_Create_PastStartDate(t *testing.T) {
	fx := newRequestFixture(t)

	_, err := fx.service.Create(context.Background(), fx.createReq("2025-05-30", "2025-06-03"))
	assert.ErrorIs(t, err, requesterrors.ErrStartDateInPast)
}

func TestService_Create_UnknownEmployee(t *testing.T) {
	fx := newRequestFixture(t)

	req := fx.createReq("2025-06-09", "2025-06-10")
	req.EmployeeID = uuid.NewString()
	_, err := fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, requesterrors.ErrEmployeeNotFound)
}

func TestService_Create_WeekendOnly(t *testing.T) {
	fx := newRequestFixture(t)

	_, err := fx.service.Create(context.Background(), fx.createReq("2025-06-07", "2025-06-08"))
	assert.ErrorIs(t, err, requesterrors.ErrNoBusinessDays)
}

func TestService_Create_Overlap(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()
	fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusPending)

	// sharing a single boundary day still overlaps
	_, err := fx.service.Create(ctx, fx.createReq("2025-06-11", "2025-06-12"))
	assert.ErrorIs(t, err, requesterrors.ErrOverlappingRequest)

	// the day right after the existing range is fine
	_, err = fx.service.Create(ctx, fx.createReq("2025-06-12", "2025-06-13"))
	assert.NoError(t, err)
}

func TestService_Create_CancelledRequestDoesNotBlock(t *testing.T) {
	fx := newRequestFixture(t)
	fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusCancelled)

	_, err := fx.service.Create(context.Background(), fx.createReq("2025-06-09", "2025-06-11"))
	assert.NoError(t, err)
}

func TestService_Create_InsufficientBalance(t *testing.T) {
	fx := newRequestFixture(t)

	// three full weeks is 15 business days against a 12-day balance
	_, err := fx.service.Create(context.Background(), fx.createReq("2025-06-09", "2025-06-27"))
	assert.ErrorIs(t, err, requesterrors.ErrInsufficientBalance)
}

func TestService_Cancel_Pending(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()
	id := fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusPending)

	resp, err := fx.service.Cancel(ctx, id.String())
	assert.NoError(t, err)
	assert.Equal(t, request.StatusCancelled, resp.Status)

	// nothing was deducted, so nothing is restored
	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2025)
	assert.Equal(t, 0, b.UsedDays)
}

func TestService_Cancel_ApprovedRestoresBalance(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()

	id := fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusApproved)
	err := fx.db.Model(&balance.LeaveBalance{}).
		Where("employee_id = ?", fx.empID).
		Update("used_days", 3).Error
	assert.NoError(t, err)

	resp, err := fx.service.Cancel(ctx, id.String())
	assert.NoError(t, err)
	assert.Equal(t, request.StatusCancelled, resp.Status)

	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2025)
	assert.Equal(t, 0, b.UsedDays)

	if assert.Len(t, fx.publisher.decided, 1) {
		assert.Equal(t, request.StatusCancelled, fx.publisher.decided[0].Status)
		assert.Equal(t, id.String(), fx.publisher.decided[0].RequestID)
	}
}

func TestService_Cancel_InvalidStates(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()

	cancelled := fx.seedRequest(t, "2025-06-09", "2025-06-10", 2, request.StatusCancelled)
	_, err := fx.service.Cancel(ctx, cancelled.String())
	assert.ErrorIs(t, err, requesterrors.ErrAlreadyCancelled)

	rejected := fx.seedRequest(t, "2025-06-16", "2025-06-17", 2, request.StatusRejected)
	_, err = fx.service.Cancel(ctx, rejected.String())
	assert.ErrorIs(t, err, requesterrors.ErrInvalidStatusTransition)
}

func TestService_Delete_PurgesSteps(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()

	id := fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusPending)
	err := fx.steps.CreateBatch(ctx, []approval.ApprovalStep{
		{ID: uuid.New(), LeaveRequestID: id, ApproverID: uuid.New(), StepOrder: 1, Status: approval.StepPending},
		{ID: uuid.New(), LeaveRequestID: id, ApproverID: uuid.New(), StepOrder: 2, Status: approval.StepPending},
	})
	assert.NoError(t, err)

	assert.NoError(t, fx.service.Delete(ctx, id.String()))

	_, err = fx.service.GetByID(ctx, id.String())
	assert.ErrorIs(t, err, requesterrors.ErrRequestNotFound)

	steps, err := fx.steps.FindByRequestID(ctx, id)
	assert.NoError(t, err)
	assert.Empty(t, steps)
}

func TestService_Update(t *testing.T) {
	fx := newRequestFixture(t)
	ctx := context.Background()
	id := fx.seedRequest(t, "2025-06-09", "2025-06-11", 3, request.StatusPending)

	resp, err := fx.service.Update(ctx, id.String(), request.UpdateLeaveRequest{
		LeaveTypeID: fx.typeID.String(),
		StartDate:   "2025-06-16",
		EndDate:     "2025-06-20",
		Reason:      "moved a week later",
	})
	assert.NoError(t, err)
	assert.Equal(t, 5, resp.TotalDays)
	assert.Equal(t, "2025-06-16", resp.StartDate)

	approved := fx.seedRequest(t, "2025-07-07", "2025-07-08", 2, request.StatusApproved)
	_, err = fx.service.Update(ctx, approved.String(), request.UpdateLeaveRequest{
		LeaveTypeID: fx.typeID.String(),
		StartDate:   "2025-07-14",
		EndDate:     "2025-07-15",
	})
	assert.ErrorIs(t, err, requesterrors.ErrNotPending)
}
