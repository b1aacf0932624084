package balance_test

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/balance"
	balanceerrors "leavedesk/internal/balance/errors"
	"leavedesk/internal/leavetype"
	"leavedesk/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type balanceFixture struct {
	db      *gorm.DB
	repo    balance.Repository
	types   leavetype.Repository
	service balance.Service
	clk     clock.Fixed
}

func newBalanceFixture(t *testing.T) *balanceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&leavetype.LeaveType{}, &balance.LeaveBalance{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	clk := clock.Fixed{T: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	repo := balance.NewRepository(db)
	typeRepo := leavetype.NewRepository(db)
	return &balanceFixture{
		db:      db,
		repo:    repo,
		types:   typeRepo,
		service: balance.NewService(db, repo, typeRepo, clk),
		clk:     clk,
	}
}

func (fx *balanceFixture) addType(t *testing.T, name string, defaultDays int, active bool) uuid.UUID {
	t.Helper()
	lt := &leavetype.LeaveType{
		ID:          uuid.New(),
		Name:        name,
		DefaultDays: defaultDays,
		IsActive:    active,
	}
	if err := fx.types.Create(context.Background(), lt); err != nil {
		t.Fatalf("create leave type: %v", err)
	}
	return lt.ID
}

func (fx *balanceFixture) addBucket(t *testing.T, empID, typeID uuid.UUID, year, total, used int) {
	t.Helper()
	err := fx.repo.Create(context.Background(), &balance.LeaveBalance{
		ID:          uuid.New(),
		EmployeeID:  empID,
		LeaveTypeID: typeID,
		Year:        year,
		TotalDays:   total,
		UsedDays:    used,
	})
	if err != nil {
		t.Fatalf("create balance: %v", err)
	}
}

func TestService_InitializeForEmployee(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	annual := fx.addType(t, "Annual Leave", 12, true)
	fx.addType(t, "Sick Leave", 10, true)
	fx.addType(t, "Sabbatical", 30, false)
	empID := uuid.New()

	created, err := fx.service.InitializeForEmployee(ctx, empID.String())
	assert.NoError(t, err)
	assert.Equal(t, 2, created) // inactive types are skipped

	b, err := fx.repo.FindBucket(ctx, empID.String(), annual.String(), 2025)
	assert.NoError(t, err)
	assert.Equal(t, 12, b.TotalDays)
	assert.Equal(t, 0, b.UsedDays)

	// a second run finds everything seeded
	created, err = fx.service.InitializeForEmployee(ctx, empID.String())
	assert.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestService_InitializeForEmployee_BadID(t *testing.T) {
	fx := newBalanceFixture(t)

	_, err := fx.service.InitializeForEmployee(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, balanceerrors.ErrInvalidEmployeeID)
}

func TestService_HasSufficientBalance(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	typeID := fx.addType(t, "Annual Leave", 12, true)
	empID := uuid.New()
	fx.addBucket(t, empID, typeID, 2025, 12, 9) // 3 remaining

	ok, err := fx.service.HasSufficientBalance(ctx, empID.String(), typeID.String(), 3)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.service.HasSufficientBalance(ctx, empID.String(), typeID.String(), 4)
	assert.NoError(t, err)
	assert.False(t, ok)

	// a missing bucket reads as insufficient, not as an error
	ok, err = fx.service.HasSufficientBalance(ctx, uuid.NewString(), typeID.String(), 1)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Adjust(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	typeID := fx.addType(t, "Annual Leave", 12, true)
	empID := uuid.New()
	fx.addBucket(t, empID, typeID, 2025, 12, 4)

	resp, err := fx.service.Adjust(ctx, balance.AdjustBalanceRequest{
		EmployeeID:  empID.String(),
		LeaveTypeID: typeID.String(),
		Year:        2025,
		TotalDays:   15,
	})
	assert.NoError(t, err)
	assert.Equal(t, 15, resp.TotalDays)
	assert.Equal(t, 4, resp.UsedDays)

	_, err = fx.service.Adjust(ctx, balance.AdjustBalanceRequest{
		EmployeeID:  empID.String(),
		LeaveTypeID: typeID.String(),
		Year:        2025,
		TotalDays:   -1,
	})
	assert.ErrorIs(t, err, balanceerrors.ErrNegativeTotal)

	_, err = fx.service.Adjust(ctx, balance.AdjustBalanceRequest{
		EmployeeID:  uuid.NewString(),
		LeaveTypeID: typeID.String(),
		Year:        2025,
		TotalDays:   10,
	})
	assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
}

func TestService_Deduct(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	typeID := fx.addType(t, "Annual Leave", 12, true)
	empID := uuid.New()
	fx.addBucket(t, empID, typeID, 2025, 12, 0)

	err := fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.service.Deduct(ctx, tx, empID.String(), typeID.String(), 2025, 3)
	})
	assert.NoError(t, err)

	b, _ := fx.repo.FindBucket(ctx, empID.String(), typeID.String(), 2025)
	assert.Equal(t, 3, b.UsedDays)

	err = fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.service.Deduct(ctx, tx, empID.String(), typeID.String(), 2024, 1)
	})
	assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)

	err = fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.service.Deduct(ctx, tx, empID.String(), typeID.String(), 2025, 0)
	})
	assert.ErrorIs(t, err, balanceerrors.ErrInvalidDays)
}

func TestService_Restore_FloorsAtZero(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	typeID := fx.addType(t, "Annual Leave", 12, true)
	empID := uuid.New()
	fx.addBucket(t, empID, typeID, 2025, 12, 2)

	err := fx.db.Transaction(func(tx *gorm.DB) error {
		return fx.service.Restore(ctx, tx, empID.String(), typeID.String(), 2025, 5)
	})
	assert.NoError(t, err)

	b, _ := fx.repo.FindBucket(ctx, empID.String(), typeID.String(), 2025)
	assert.Equal(t, 0, b.UsedDays)
}

func TestService_GetEmployeeBalances(t *testing.T) {
	fx := newBalanceFixture(t)
	ctx := context.Background()

	annual := fx.addType(t, "Annual Leave", 12, true)
	sick := fx.addType(t, "Sick Leave", 10, true)
	empID := uuid.New()
	fx.addBucket(t, empID, annual, 2025, 12, 3)
	fx.addBucket(t, empID, sick, 2025, 10, 0)
	fx.addBucket(t, empID, annual, 2024, 12, 12)

	out, err := fx.service.GetEmployeeBalances(ctx, empID.String(), 2025)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	for _, b := range out {
		assert.Equal(t, 2025, b.Year)
	}
}
