package employee

import (
	"context"
	"time"

	"leavedesk/internal/domain"
	employeeerrors "leavedesk/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BalanceInitializer seeds the current-year leave balances for a new
// employee. Implemented by the balance service; idempotent.
type BalanceInitializer interface {
	InitializeForEmployee(ctx context.Context, employeeID string) (int, error)
}

// EventPublisher enqueues lifecycle events for async delivery. Failures are
// logged and swallowed; employee creation never depends on the broker.
type EventPublisher interface {
	PublishEmployeeCreated(ctx context.Context, employeeID, email string) error
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db          *gorm.DB
	repo        Repository
	balanceInit BalanceInitializer
	publisher   EventPublisher
	logger      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	balanceInit BalanceInitializer,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceInit: balanceInit,
		publisher:   publisher,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrManagerNotFound
		}
		if _, err := s.repo.FindByID(ctx, parsed.String()); err != nil {
			return EmployeeResponse{}, employeeerrors.ErrManagerNotFound
		}
		managerID = &parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Department:   req.Department,
		Position:     req.Position,
		Role:         role,
		ManagerID:    managerID,
		HireDate:     hireDate,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, e)
	})
	if err != nil {
		s.logger.Error("create employee failed", zap.String("email", req.Email), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	// Balance seeding is idempotent, so a failure here is recoverable by
	// re-running InitializeForEmployee from the admin API.
	if count, err := s.balanceInit.InitializeForEmployee(ctx, e.ID.String()); err != nil {
		s.logger.Warn("initialize balances for new employee failed",
			zap.String("employee_id", e.ID.String()),
			zap.Error(err),
		)
	} else {
		s.logger.Info("initialized balances for new employee",
			zap.String("employee_id", e.ID.String()),
			zap.Int("buckets", count),
		)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEmployeeCreated(ctx, e.ID.String(), e.Email); err != nil {
			s.logger.Warn("publish employee created event failed",
				zap.String("employee_id", e.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("role", string(e.Role)),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	var managerID *uuid.UUID
	if req.ManagerID != nil && *req.ManagerID != "" {
		parsed, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrManagerNotFound
		}
		if parsed == e.ID {
			return EmployeeResponse{}, employeeerrors.ErrSelfManager
		}
		if _, err := s.repo.FindByID(ctx, parsed.String()); err != nil {
			return EmployeeResponse{}, employeeerrors.ErrManagerNotFound
		}
		managerID = &parsed
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Email = req.Email
	e.Department = req.Department
	e.Position = req.Position
	e.Role = role
	e.ManagerID = managerID
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.Delete(ctx, id)
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         e.ID.String(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Role:       string(e.Role),
		HireDate:   e.HireDate.Format("2006-01-02"),
		IsActive:   e.IsActive,
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
