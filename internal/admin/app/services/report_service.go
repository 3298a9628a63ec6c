package services

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/lifecycle"
	"tavolo/internal/reports"
	"tavolo/internal/xpkg/logger"
)

type ReportService struct {
	orderRepo core.IOrderRepo
	mylog     logger.Logger
	loc       *time.Location
}

func NewReportService(orderRepo core.IOrderRepo, mylog logger.Logger, loc *time.Location) *ReportService {
	return &ReportService{orderRepo: orderRepo, mylog: mylog, loc: loc}
}

// Window parses a from/to pair of business-local dates (2006-01-02). An
// empty pair defaults to the trailing week; to is exclusive at the start
// of the following day.
func (rs *ReportService) Window(fromRaw, toRaw string) (time.Time, time.Time, error) {
	now := time.Now().In(rs.loc)

	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, rs.loc).AddDate(0, 0, 1)
	if toRaw != "" {
		day, err := time.ParseInLocation("2006-01-02", toRaw, rs.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to: %v", core.ErrBadTimeWindow, err)
		}
		to = day.AddDate(0, 0, 1)
	}

	from := to.AddDate(0, 0, -core.DefaultReportWindowDays)
	if fromRaw != "" {
		day, err := time.ParseInLocation("2006-01-02", fromRaw, rs.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from: %v", core.ErrBadTimeWindow, err)
		}
		from = day
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %s is not before to %s",
			core.ErrBadTimeWindow, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return from.UTC(), to.UTC(), nil
}

func (rs *ReportService) fetch(ctx context.Context, fromRaw, toRaw string) ([]reports.Order, error) {
	from, to, err := rs.Window(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	return rs.orderRepo.FetchWindow(ctx, from, to)
}

func (rs *ReportService) Summary(ctx context.Context, fromRaw, toRaw string) (reports.Summary, error) {
	orders, err := rs.fetch(ctx, fromRaw, toRaw)
	if err != nil {
		return reports.Summary{}, err
	}
	return reports.Summarize(orders), nil
}

func (rs *ReportService) TopItems(ctx context.Context, fromRaw, toRaw string, limit int) ([]reports.ItemRank, error) {
	orders, err := rs.fetch(ctx, fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	return reports.TopSellingItems(orders, limit), nil
}

func (rs *ReportService) Daily(ctx context.Context, fromRaw, toRaw string) ([]reports.DayBucket, error) {
	orders, err := rs.fetch(ctx, fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	return reports.DailySeries(orders, core.DefaultReportWindowDays, rs.loc), nil
}

// Export renders the window as a CSV ledger or a JSON document and
// returns the payload with its content type.
func (rs *ReportService) Export(ctx context.Context, fromRaw, toRaw, format string) (string, string, error) {
	orders, err := rs.fetch(ctx, fromRaw, toRaw)
	if err != nil {
		return "", "", err
	}

	switch format {
	case "csv":
		out, err := reports.ToCSV(orders)
		return out, "text/csv", err
	case "json", "":
		out, err := reports.ToJSON(orders, reports.ExportDetailed)
		return out, "application/json", err
	}
	return "", "", fmt.Errorf("%w: %q", core.ErrUnknownFormat, format)
}

// statOrders adapts a merged snapshot for daily stats computation.
func statOrders(orders []reports.Order) []lifecycle.StatOrder {
	out := make([]lifecycle.StatOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, lifecycle.StatOrder{
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		})
	}
	return out
}
