package holiday

import (
	"context"
	"errors"
	"time"

	holidayerrors "leavedesk/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context) ([]HolidayResponse, error)
	GetByID(ctx context.Context, id string) (HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error

	// WorkingDays counts days in the inclusive range that are neither
	// weekends nor active public holidays.
	WorkingDays(ctx context.Context, startDate, endDate string) (WorkingDaysResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	h := &Holiday{
		ID:          uuid.New(),
		Name:        req.Name,
		Date:        date,
		IsRecurring: req.IsRecurring,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)
	return toResponse(h), nil
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]HolidayResponse, 0, len(holidays))
	for i := range holidays {
		out = append(out, toResponse(&holidays[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (HolidayResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}
	return toResponse(h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
		}
		h.Date = date
	}
	if req.IsRecurring != nil {
		h.IsRecurring = *req.IsRecurring
	}
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}
	return toResponse(h), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) WorkingDays(ctx context.Context, startDate, endDate string) (WorkingDaysResponse, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return WorkingDaysResponse{}, holidayerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return WorkingDaysResponse{}, holidayerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return WorkingDaysResponse{}, holidayerrors.ErrInvalidDateRange
	}

	holidays, err := s.repo.FindActive(ctx)
	if err != nil {
		return WorkingDaysResponse{}, err
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if isHoliday(d, holidays) {
			continue
		}
		count++
	}

	return WorkingDaysResponse{
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: count,
	}, nil
}

func isHoliday(d time.Time, holidays []Holiday) bool {
	for _, h := range holidays {
		if h.IsRecurring {
			if h.Date.Month() == d.Month() && h.Date.Day() == d.Day() {
				return true
			}
			continue
		}
		if h.Date.Year() == d.Year() && h.Date.YearDay() == d.YearDay() {
			return true
		}
	}
	return false
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return holidayerrors.ErrHolidayNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return holidayerrors.ErrHolidayDateTaken
	}
	return err
}
