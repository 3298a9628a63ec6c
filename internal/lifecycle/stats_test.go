package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDailyStats(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)

	now := time.Date(2026, 8, 31, 20, 0, 0, 0, loc)
	today := time.Date(2026, 8, 31, 9, 0, 0, 0, loc)

	orders := []StatOrder{
		{Status: "completed", TotalAmount: 100, CreatedAt: today},
		{Status: "completed", TotalAmount: 150, CreatedAt: today},
		{Status: "cancelled", TotalAmount: 999, CreatedAt: today},
	}

	stats := ComputeDailyStats(orders, now, loc)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 2, stats.CompletedOrders)
	assert.Equal(t, 1, stats.CancelledOrders)
	assert.Equal(t, 250.0, stats.Revenue)
	assert.Equal(t, 2, stats.ByStatus["completed"])
	assert.Equal(t, 1, stats.ByStatus["cancelled"])
}

func TestComputeDailyStatsIgnoresArbitraryCancelledTotals(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, loc)

	orders := []StatOrder{
		{Status: "completed", TotalAmount: 50, CreatedAt: now},
	}
	base := ComputeDailyStats(orders, now, loc)

	orders = append(orders,
		StatOrder{Status: "cancelled", TotalAmount: 123456, CreatedAt: now},
		StatOrder{Status: "cancelled", TotalAmount: -90000, CreatedAt: now},
	)
	withCancelled := ComputeDailyStats(orders, now, loc)

	assert.Equal(t, base.Revenue, withCancelled.Revenue)
	assert.Equal(t, 2, withCancelled.CancelledOrders)
}

func TestComputeDailyStatsBusinessDayBoundary(t *testing.T) {
	// Asia/Almaty is UTC+5: 22:00 UTC on Aug 30 is already Aug 31 locally.
	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, loc)

	orders := []StatOrder{
		// 2026-08-30T22:00Z == 2026-08-31T03:00+05:00, counts as today
		{Status: "pending", TotalAmount: 10, CreatedAt: time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)},
		// 2026-08-30T18:00Z == 2026-08-30T23:00+05:00, yesterday
		{Status: "pending", TotalAmount: 20, CreatedAt: time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)},
	}

	stats := ComputeDailyStats(orders, now, loc)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 10.0, stats.Revenue)
}

func TestKioskNormalize(t *testing.T) {
	completed := time.Now()

	paid := KioskOrder{Status: KioskPaymentReceived, TotalAmount: 15}
	assert.Equal(t, "payment_received", paid.Normalize().Status)

	fulfilled := paid
	fulfilled.CompletedAt = &completed
	assert.Equal(t, "completed", fulfilled.Normalize().Status)

	cancelled := KioskOrder{Status: KioskCancelled}
	assert.Equal(t, "cancelled", cancelled.Normalize().Status)
}
