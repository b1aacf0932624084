package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leavedesk/internal/shared/clock"

	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	summaryCacheKeyPrefix = "reports:leave-summary:"
	summaryCacheTTL       = 10 * time.Minute
)

func summaryCacheKey(year int) string {
	return fmt.Sprintf("%s%d", summaryCacheKeyPrefix, year)
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	LeaveSummary(ctx context.Context, year int) ([]LeaveSummaryRow, error)
	ExportLeaveSummary(ctx context.Context, year int) ([]byte, string, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		clk:    clk,
		logger: l,
	}
}

func (s *service) LeaveSummary(ctx context.Context, year int) ([]LeaveSummaryRow, error) {
	if year == 0 {
		year = s.clk.Now().Year()
	}
	cacheKey := summaryCacheKey(year)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var rows []LeaveSummaryRow
			if err := json.Unmarshal([]byte(cached), &rows); err == nil {
				return rows, nil
			}
		}
	}

	// Singleflight collapses concurrent misses into one database query.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.LeaveSummary(ctx, year)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if data, err := json.Marshal(rows); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, summaryCacheTTL).Err(); err != nil {
					s.logger.Warn("cache leave summary failed",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaveSummaryRow), nil
}

func (s *service) ExportLeaveSummary(ctx context.Context, year int) ([]byte, string, error) {
	if year == 0 {
		year = s.clk.Now().Year()
	}

	rows, err := s.LeaveSummary(ctx, year)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leave Summary"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Employee", "Leave Type", "Year", "Total Days", "Used Days", "Remaining Days", "Approved Requests"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.EmployeeName,
			row.LeaveTypeName,
			row.Year,
			row.TotalDays,
			row.UsedDays,
			row.RemainingDays,
			row.ApprovedRequests,
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("leave-summary-%d.xlsx", year)
	s.logger.Info("leave summary exported",
		zap.Int("year", year),
		zap.Int("rows", len(rows)),
	)
	return buf.Bytes(), filename, nil
}
