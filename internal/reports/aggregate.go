// Package reports reduces merged order snapshots into summary figures,
// top-seller rankings and daily time series, and serializes exports.
// Every function is pure: it takes a freshly fetched snapshot and keeps
// no state between calls.
package reports

import (
	"sort"
	"time"

	"tavolo/internal/lifecycle"
)

type Source string

const (
	SourceOnline Source = "online"
	SourceKiosk  Source = "kiosk"
)

// Order is the common reporting shape online and kiosk orders are
// normalized onto before any aggregation.
type Order struct {
	ID           string     `json:"id"`
	OrderNumber  string     `json:"order_number"`
	Source       Source     `json:"source"`
	Status       string     `json:"status"`
	OrderType    string     `json:"order_type"`
	CustomerName string     `json:"customer_name"`
	TotalAmount  float64    `json:"total_amount"`
	DeliveryFee  float64    `json:"delivery_fee,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Items        []LineItem `json:"items,omitempty"`
}

type LineItem struct {
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

func (o Order) cancelled() bool {
	return o.Status == string(lifecycle.StatusCancelled)
}

// FromOnline converts a storefront order into the reporting shape.
func FromOnline(o lifecycle.Order, items []LineItem) Order {
	return Order{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		Source:       SourceOnline,
		Status:       string(o.Status),
		OrderType:    string(o.OrderType),
		CustomerName: o.CustomerName,
		TotalAmount:  o.TotalAmount,
		DeliveryFee:  o.DeliveryFee,
		CreatedAt:    o.CreatedAt,
		Items:        items,
	}
}

// FromKiosk converts a kiosk order into the reporting shape. This is the
// only place a kiosk status string enters reporting: paid-and-fulfilled
// becomes completed, cancelled stays cancelled, anything else keeps the
// kiosk spelling.
func FromKiosk(k lifecycle.KioskOrder, items []LineItem) Order {
	status := string(k.Status)
	if k.Status == lifecycle.KioskPaymentReceived && k.CompletedAt != nil {
		status = string(lifecycle.StatusCompleted)
	}
	return Order{
		ID:           k.ID,
		OrderNumber:  k.OrderNumber,
		Source:       SourceKiosk,
		Status:       status,
		OrderType:    string(k.OrderType),
		CustomerName: k.CustomerName,
		TotalAmount:  k.TotalAmount,
		CreatedAt:    k.CreatedAt,
		Items:        items,
	}
}

type Summary struct {
	TotalOrders    int            `json:"total_orders"`
	TotalSales     float64        `json:"total_sales"`
	AvgOrderValue  float64        `json:"avg_order_value"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
}

// Summarize computes totals over the snapshot. TotalSales and
// AvgOrderValue cover non-cancelled orders only; AvgOrderValue is 0 when
// there are none.
func Summarize(orders []Order) Summary {
	s := Summary{OrdersByStatus: make(map[string]int)}

	nonCancelled := 0
	for _, o := range orders {
		s.TotalOrders++
		s.OrdersByStatus[o.Status]++
		if o.cancelled() {
			continue
		}
		nonCancelled++
		s.TotalSales += o.TotalAmount
	}

	if nonCancelled > 0 {
		s.AvgOrderValue = s.TotalSales / float64(nonCancelled)
	}
	return s
}

type ItemRank struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TopSellingItems groups line items by name across non-cancelled orders
// and returns up to limit entries sorted by quantity descending. Ties
// keep first-seen order: the item that first appears in the snapshot
// ranks ahead of a later one with equal quantity.
func TopSellingItems(orders []Order, limit int) []ItemRank {
	if limit <= 0 {
		limit = 5
	}

	index := make(map[string]int)
	var ranks []ItemRank

	for _, o := range orders {
		if o.cancelled() {
			continue
		}
		for _, item := range o.Items {
			i, seen := index[item.Name]
			if !seen {
				index[item.Name] = len(ranks)
				ranks = append(ranks, ItemRank{Name: item.Name})
				i = len(ranks) - 1
			}
			ranks[i].Quantity += item.Quantity
			ranks[i].Revenue += item.LineTotal
		}
	}

	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].Quantity > ranks[b].Quantity
	})

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

type DayBucket struct {
	Date   string  `json:"date"`
	Orders int     `json:"orders"`
	Sales  float64 `json:"sales"`
}

// DailySeries buckets non-cancelled orders by business-timezone calendar
// date of creation, ascending, trimmed to the most recent windowDays
// buckets.
func DailySeries(orders []Order, windowDays int, loc *time.Location) []DayBucket {
	if windowDays <= 0 {
		windowDays = 7
	}

	byDate := make(map[string]*DayBucket)
	for _, o := range orders {
		if o.cancelled() {
			continue
		}
		date := o.CreatedAt.In(loc).Format("2006-01-02")
		b, ok := byDate[date]
		if !ok {
			b = &DayBucket{Date: date}
			byDate[date] = b
		}
		b.Orders++
		b.Sales += o.TotalAmount
	}

	series := make([]DayBucket, 0, len(byDate))
	for _, b := range byDate {
		series = append(series, *b)
	}
	sort.Slice(series, func(a, b int) bool {
		return series[a].Date < series[b].Date
	})

	if len(series) > windowDays {
		series = series[len(series)-windowDays:]
	}
	return series
}

// SortByCreatedDesc orders a merged snapshot newest first, the listing
// order admin views use.
func SortByCreatedDesc(orders []Order) {
	sort.SliceStable(orders, func(a, b int) bool {
		return orders[a].CreatedAt.After(orders[b].CreatedAt)
	})
}
