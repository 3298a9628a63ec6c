package reports

import (
	"testing"
	"time"

	"tavolo/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	orders := []Order{
		{Status: "completed", TotalAmount: 100},
		{Status: "completed", TotalAmount: 150},
		{Status: "preparing", TotalAmount: 50},
		{Status: "cancelled", TotalAmount: 999},
	}

	s := Summarize(orders)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 300.0, s.TotalSales)
	assert.Equal(t, 100.0, s.AvgOrderValue)
	assert.Equal(t, 2, s.OrdersByStatus["completed"])
	assert.Equal(t, 1, s.OrdersByStatus["cancelled"])
}

func TestSummarizeEmptyAndAllCancelled(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0.0, s.AvgOrderValue)

	s = Summarize([]Order{{Status: "cancelled", TotalAmount: 40}})
	assert.Equal(t, 0.0, s.TotalSales)
	assert.Equal(t, 0.0, s.AvgOrderValue)
	assert.Equal(t, 1, s.TotalOrders)
}

func TestTopSellingItems(t *testing.T) {
	orders := []Order{
		{Status: "completed", Items: []LineItem{
			{Name: "Burger", Quantity: 3, LineTotal: 30},
			{Name: "Fries", Quantity: 5, LineTotal: 15},
		}},
		{Status: "completed", Items: []LineItem{
			{Name: "Burger", Quantity: 2, LineTotal: 20},
		}},
	}

	ranks := TopSellingItems(orders, 5)
	require.Len(t, ranks, 2)
	// equal quantities: Burger was seen first, so it ranks ahead of Fries
	assert.Equal(t, ItemRank{Name: "Burger", Quantity: 5, Revenue: 50}, ranks[0])
	assert.Equal(t, ItemRank{Name: "Fries", Quantity: 5, Revenue: 15}, ranks[1])
}

func TestTopSellingItemsSkipsCancelledAndTruncates(t *testing.T) {
	orders := []Order{
		{Status: "cancelled", Items: []LineItem{{Name: "Pizza", Quantity: 99, LineTotal: 990}}},
		{Status: "completed", Items: []LineItem{
			{Name: "Cola", Quantity: 2, LineTotal: 6},
			{Name: "Tea", Quantity: 1, LineTotal: 2},
		}},
	}

	ranks := TopSellingItems(orders, 1)
	require.Len(t, ranks, 1)
	assert.Equal(t, "Cola", ranks[0].Name)
}

func TestDailySeries(t *testing.T) {
	loc := time.UTC
	day := func(d int) time.Time { return time.Date(2026, 8, d, 12, 0, 0, 0, loc) }

	var orders []Order
	for d := 20; d <= 30; d++ {
		orders = append(orders, Order{Status: "completed", TotalAmount: 10, CreatedAt: day(d)})
	}
	orders = append(orders, Order{Status: "cancelled", TotalAmount: 500, CreatedAt: day(30)})

	series := DailySeries(orders, 7, loc)
	require.Len(t, series, 7)
	assert.Equal(t, "2026-08-24", series[0].Date)
	assert.Equal(t, "2026-08-30", series[6].Date)
	// cancelled order contributes nothing on the 30th
	assert.Equal(t, 1, series[6].Orders)
	assert.Equal(t, 10.0, series[6].Sales)
}

func TestFromKioskStatusMapping(t *testing.T) {
	now := time.Now()

	paid := lifecycle.KioskOrder{Status: lifecycle.KioskPaymentReceived}
	assert.Equal(t, "payment_received", FromKiosk(paid, nil).Status)

	fulfilled := paid
	fulfilled.CompletedAt = &now
	assert.Equal(t, "completed", FromKiosk(fulfilled, nil).Status)

	cancelled := lifecycle.KioskOrder{Status: lifecycle.KioskCancelled}
	assert.Equal(t, "cancelled", FromKiosk(cancelled, nil).Status)

	assert.Equal(t, SourceKiosk, FromKiosk(paid, nil).Source)
}
