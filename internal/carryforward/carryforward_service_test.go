package carryforward_test

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/balance"
	"leavedesk/internal/carryforward"
	carryforwarderrors "leavedesk/internal/carryforward/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type carryFixture struct {
	db       *gorm.DB
	repo     carryforward.Repository
	balances balance.Repository
	service  carryforward.Service
	clk      clock.Fixed
	empID    uuid.UUID
	typeID   uuid.UUID
}

func newCarryFixture(t *testing.T, defaultDays int) *carryFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&employee.Employee{},
		&leavetype.LeaveType{},
		&balance.LeaveBalance{},
		&carryforward.CarryForwardRecord{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	clk := clock.Fixed{T: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)}
	repo := carryforward.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	leaveTypeRepo := leavetype.NewRepository(db)
	employeeRepo := employee.NewRepository(db)

	emp := &employee.Employee{
		ID:           uuid.New(),
		FirstName:    "Rani",
		LastName:     "Susanto",
		Email:        "rani.susanto@example.com",
		PasswordHash: "x",
		Role:         domain.RoleEmployee,
		HireDate:     clk.T.AddDate(-3, 0, 0),
		IsActive:     true,
	}
	if err := employeeRepo.Create(context.Background(), emp); err != nil {
		t.Fatalf("create employee: %v", err)
	}

	lt := &leavetype.LeaveType{
		ID:          uuid.New(),
		Name:        "Annual Leave",
		DefaultDays: defaultDays,
		IsActive:    true,
	}
	if err := leaveTypeRepo.Create(context.Background(), lt); err != nil {
		t.Fatalf("create leave type: %v", err)
	}

	return &carryFixture{
		db:       db,
		repo:     repo,
		balances: balanceRepo,
		service: carryforward.NewService(
			db, repo, balanceRepo, leaveTypeRepo, employeeRepo, clk,
		),
		clk:    clk,
		empID:  emp.ID,
		typeID: lt.ID,
	}
}

func (fx *carryFixture) addBucket(t *testing.T, year, total, used int) {
	t.Helper()
	err := fx.balances.Create(context.Background(), &balance.LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  fx.empID,
		LeaveTypeID: fx.typeID,
		Year:        year,
		TotalDays:   total,
		UsedDays:    used,
	})
	if err != nil {
		t.Fatalf("create balance: %v", err)
	}
}

func (fx *carryFixture) processReq(fromYear int) carryforward.ProcessRequest {
	return carryforward.ProcessRequest{
		EmployeeID:  fx.empID.String(),
		LeaveTypeID: fx.typeID.String(),
		FromYear:    fromYear,
	}
}

func TestService_Process(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9) // 3 remaining, under the default cap of 5
	fx.addBucket(t, 2026, 12, 0)

	rec, err := fx.service.Process(ctx, fx.processReq(2025))
	assert.NoError(t, err)
	assert.Equal(t, 3, rec.CarriedDays)
	assert.Equal(t, 2026, rec.ToYear)
	if assert.NotNil(t, rec.ExpiryDate) {
		assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), *rec.ExpiryDate)
	}

	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2026)
	assert.Equal(t, 15, b.TotalDays)
}

func TestService_Process_CapClampsCarry(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 2) // 10 remaining
	fx.addBucket(t, 2026, 12, 0)

	rec, err := fx.service.Process(ctx, fx.processReq(2025))
	assert.NoError(t, err)
	assert.Equal(t, 5, rec.CarriedDays)

	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2026)
	assert.Equal(t, 17, b.TotalDays)
}

func TestService_Process_ExplicitCap(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 2)
	fx.addBucket(t, 2026, 12, 0)

	req := fx.processReq(2025)
	req.MaxDays = 8
	rec, err := fx.service.Process(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, 8, rec.CarriedDays)
}

func TestService_Process_ExplicitExpiry(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)
	fx.addBucket(t, 2026, 12, 0)

	req := fx.processReq(2025)
	req.ExpiryDate = "2026-06-30"
	rec, err := fx.service.Process(ctx, req)
	assert.NoError(t, err)
	if assert.NotNil(t, rec.ExpiryDate) {
		assert.Equal(t, time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), *rec.ExpiryDate)
	}
}

func TestService_Process_SeedsMissingTargetBucket(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)

	_, err := fx.service.Process(ctx, fx.processReq(2025))
	assert.NoError(t, err)

	b, err := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, 15, b.TotalDays) // annual allocation plus the carried 3
	assert.Equal(t, 0, b.UsedDays)
}

func TestService_Process_Rejections(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)

	t.Run("duplicate bucket pair", func(t *testing.T) {
		_, err := fx.service.Process(ctx, fx.processReq(2025))
		assert.NoError(t, err)

		_, err = fx.service.Process(ctx, fx.processReq(2025))
		assert.ErrorIs(t, err, carryforwarderrors.ErrAlreadyProcessed)
	})

	t.Run("missing source bucket", func(t *testing.T) {
		_, err := fx.service.Process(ctx, fx.processReq(2023))
		assert.ErrorIs(t, err, carryforwarderrors.ErrSourceBalanceNotFound)
	})

	t.Run("nothing remaining", func(t *testing.T) {
		fx.addBucket(t, 2024, 12, 12)
		_, err := fx.service.Process(ctx, fx.processReq(2024))
		assert.ErrorIs(t, err, carryforwarderrors.ErrNothingToCarry)
	})

	t.Run("inverted year pair", func(t *testing.T) {
		req := fx.processReq(2025)
		req.ToYear = 2024
		_, err := fx.service.Process(ctx, req)
		assert.ErrorIs(t, err, carryforwarderrors.ErrInvalidYearPair)
	})

	t.Run("bad employee id", func(t *testing.T) {
		req := fx.processReq(2025)
		req.EmployeeID = "not-a-uuid"
		_, err := fx.service.Process(ctx, req)
		assert.ErrorIs(t, err, carryforwarderrors.ErrInvalidEmployeeID)
	})

	t.Run("bad expiry date", func(t *testing.T) {
		req := fx.processReq(2025)
		req.ToYear = 2027
		req.ExpiryDate = "31-03-2027"
		_, err := fx.service.Process(ctx, req)
		assert.ErrorIs(t, err, carryforwarderrors.ErrInvalidExpiryDate)
	})
}

func TestService_ProcessYearEnd(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)

	summary, err := fx.service.ProcessYearEnd(ctx, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 2025, summary.FromYear)
	assert.Equal(t, 2026, summary.ToYear)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Failed)

	// a second sweep finds every bucket already handled
	summary, err = fx.service.ProcessYearEnd(ctx, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
}

func TestService_ExpireOutstanding(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)
	fx.addBucket(t, 2026, 12, 0)

	_, err := fx.service.Process(ctx, fx.processReq(2025))
	assert.NoError(t, err)

	// the fixture clock sits in January, before the March 31st expiry
	summary, err := fx.service.ExpireOutstanding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Expired)

	// past the expiry date the credit is reclaimed
	fx.clk.T = time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	late := carryforward.NewService(
		fx.db, fx.repo, fx.balances, leavetype.NewRepository(fx.db), employee.NewRepository(fx.db), fx.clk,
	)
	summary, err = late.ExpireOutstanding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 3, summary.Reclaimed)

	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2026)
	assert.Equal(t, 12, b.TotalDays)

	// an expired record is not swept twice
	summary, err = late.ExpireOutstanding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Expired)
}

func TestService_ExpireOutstanding_ConsumedCreditStaysConsumed(t *testing.T) {
	fx := newCarryFixture(t, 12)
	ctx := context.Background()
	fx.addBucket(t, 2025, 12, 9)

	_, err := fx.service.Process(ctx, fx.processReq(2025))
	assert.NoError(t, err)

	// shrink the target below the carried credit, as if days were spent
	// and the bucket later adjusted down
	err = fx.db.Model(&balance.LeaveBalance{}).
		Where("employee_id = ? AND year = ?", fx.empID, 2026).
		Update("total_days", 2).Error
	assert.NoError(t, err)

	fx.clk.T = time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	late := carryforward.NewService(
		fx.db, fx.repo, fx.balances, leavetype.NewRepository(fx.db), employee.NewRepository(fx.db), fx.clk,
	)
	summary, err := late.ExpireOutstanding(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.Reclaimed)

	b, _ := fx.balances.FindBucket(ctx, fx.empID.String(), fx.typeID.String(), 2026)
	assert.Equal(t, 2, b.TotalDays)
}
