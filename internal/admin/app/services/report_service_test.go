package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/reports"
	"tavolo/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService(repo *fakeOrderRepo) *ReportService {
	mylog, _ := logger.New("ERROR")
	return NewReportService(repo, mylog, time.UTC)
}

func TestWindowDefaultsToTrailingWeek(t *testing.T) {
	svc := newTestReportService(newFakeOrderRepo())

	from, to, err := svc.Window("", "")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, to.Sub(from))
	assert.True(t, to.After(time.Now().UTC()))
}

func TestWindowExplicitBounds(t *testing.T) {
	svc := newTestReportService(newFakeOrderRepo())

	from, to, err := svc.Window("2026-08-01", "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
	// to is exclusive at the start of the day after the requested date.
	assert.Equal(t, time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), to)
}

func TestWindowRejectsInvertedBounds(t *testing.T) {
	svc := newTestReportService(newFakeOrderRepo())

	_, _, err := svc.Window("2026-08-10", "2026-08-01")
	assert.ErrorIs(t, err, core.ErrBadTimeWindow)

	_, _, err = svc.Window("not-a-date", "")
	assert.ErrorIs(t, err, core.ErrBadTimeWindow)
}

func TestSummaryExcludesCancelledSales(t *testing.T) {
	repo := newFakeOrderRepo()
	now := time.Now().UTC()
	repo.merged = []reports.Order{
		{ID: "a", Status: "completed", TotalAmount: 100, CreatedAt: now},
		{ID: "b", Status: "cancelled", TotalAmount: 999, CreatedAt: now},
	}
	svc := newTestReportService(repo)

	summary, err := svc.Summary(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.InDelta(t, 100.0, summary.TotalSales, 0.001)
}

func TestExportFormats(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.merged = []reports.Order{
		{ID: "a", OrderNumber: "ORD_20260831_001", Status: "completed", TotalAmount: 100, CreatedAt: time.Now().UTC()},
	}
	svc := newTestReportService(repo)

	out, contentType, err := svc.Export(context.Background(), "", "", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasPrefix(out, "order_number,"))
	assert.Contains(t, out, "TOTAL")

	_, contentType, err = svc.Export(context.Background(), "", "", "json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	_, _, err = svc.Export(context.Background(), "", "", "xml")
	assert.ErrorIs(t, err, core.ErrUnknownFormat)
}
