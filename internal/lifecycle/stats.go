package lifecycle

import "time"

// StatOrder is the minimal normalized shape daily stats are computed
// over, so that online and kiosk orders can be merged into one snapshot.
type StatOrder struct {
	Status      string
	TotalAmount float64
	CreatedAt   time.Time
}

// Normalize converts an online order for stats computation.
func (o Order) Normalize() StatOrder {
	return StatOrder{
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}

// Normalize converts a kiosk order for stats computation. A paid and
// fulfilled kiosk order counts as completed; a paid unfulfilled one keeps
// payment_received.
func (k KioskOrder) Normalize() StatOrder {
	status := string(k.Status)
	if k.Status == KioskPaymentReceived && k.CompletedAt != nil {
		status = string(StatusCompleted)
	}
	return StatOrder{
		Status:      status,
		TotalAmount: k.TotalAmount,
		CreatedAt:   k.CreatedAt,
	}
}

type Stats struct {
	TotalOrders     int            `json:"total_orders"`
	CompletedOrders int            `json:"completed_orders"`
	CancelledOrders int            `json:"cancelled_orders"`
	Revenue         float64        `json:"revenue"`
	ByStatus        map[string]int `json:"by_status"`
}

// ComputeDailyStats reduces the snapshot to today's numbers. "Today" is
// the calendar day of now in the business time zone, not the caller's
// local zone, so orders spanning a UTC day boundary within one
// business-local day count together. Revenue excludes cancelled orders;
// that exclusion holds for every sales figure in the system.
func ComputeDailyStats(orders []StatOrder, now time.Time, loc *time.Location) Stats {
	stats := Stats{ByStatus: make(map[string]int)}

	y, m, d := now.In(loc).Date()

	for _, o := range orders {
		oy, om, od := o.CreatedAt.In(loc).Date()
		if oy != y || om != m || od != d {
			continue
		}

		stats.TotalOrders++
		stats.ByStatus[o.Status]++

		switch o.Status {
		case string(StatusCancelled):
			stats.CancelledOrders++
		case string(StatusCompleted):
			stats.CompletedOrders++
		}

		if o.Status != string(StatusCancelled) {
			stats.Revenue += o.TotalAmount
		}
	}
	return stats
}
