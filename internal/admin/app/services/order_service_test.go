package services

import (
	"context"
	"testing"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/lifecycle"
	"tavolo/internal/reports"
	"tavolo/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders  map[string]lifecycle.Order
	merged  []reports.Order
	history []lifecycle.HistoryEntry
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]lifecycle.Order)}
}

func (f *fakeOrderRepo) GetOnlineByNumber(_ context.Context, orderNumber string) (lifecycle.Order, error) {
	order, ok := f.orders[orderNumber]
	if !ok {
		return lifecycle.Order{}, core.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) UpdateOnlineStatus(_ context.Context, order lifecycle.Order, entry lifecycle.HistoryEntry) error {
	f.orders[order.OrderNumber] = order
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter core.OrderFilter) ([]reports.Order, error) {
	var out []reports.Order
	for _, o := range f.merged {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && o.CreatedAt.Before(filter.From) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) FetchWindow(_ context.Context, from, to time.Time) ([]reports.Order, error) {
	var out []reports.Order
	for _, o := range f.merged {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeBroker struct {
	statusUpdates []string
}

func (f *fakeBroker) Close() error { return nil }

func (f *fakeBroker) PushStatusUpdate(_ context.Context, _, _, newStatus, _ string) error {
	f.statusUpdates = append(f.statusUpdates, newStatus)
	return nil
}

func newTestOrderService(repo *fakeOrderRepo, broker *fakeBroker) *OrderService {
	mylog, _ := logger.New("ERROR")
	return NewOrderService(repo, broker, mylog, time.UTC)
}

func seedOrder(repo *fakeOrderRepo, status lifecycle.OnlineStatus, orderType lifecycle.OrderType) lifecycle.Order {
	order := lifecycle.Order{
		ID:          "ord-1",
		OrderNumber: "ORD_20260831_001",
		OrderType:   orderType,
		Status:      status,
		TotalAmount: 42.50,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	repo.orders[order.OrderNumber] = order
	return order
}

func TestAdvanceFollowsChain(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)
	seedOrder(repo, lifecycle.StatusPreparing, lifecycle.TypePickup)

	updated, err := svc.Advance(context.Background(), "ORD_20260831_001", "admin_1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusReady, updated.Status)

	// Pickup orders skip out_for_delivery.
	updated, err = svc.Advance(context.Background(), "ORD_20260831_001", "admin_1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCompleted, updated.Status)

	require.Len(t, repo.history, 2)
	assert.Equal(t, []string{"ready", "completed"}, broker.statusUpdates)
}

func TestAdvanceTerminalRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo, &fakeBroker{})
	seedOrder(repo, lifecycle.StatusCompleted, lifecycle.TypePickup)

	_, err := svc.Advance(context.Background(), "ORD_20260831_001", "admin_1")
	assert.ErrorIs(t, err, lifecycle.ErrTerminalOrder)
	assert.Empty(t, repo.history)
}

func TestAdvanceNotFound(t *testing.T) {
	svc := newTestOrderService(newFakeOrderRepo(), &fakeBroker{})

	_, err := svc.Advance(context.Background(), "ORD_20260831_999", "admin_1")
	assert.ErrorIs(t, err, core.ErrOrderNotFound)
}

func TestCancelRequiresReason(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestOrderService(repo, &fakeBroker{})
	seedOrder(repo, lifecycle.StatusPreparing, lifecycle.TypeDelivery)

	_, err := svc.Cancel(context.Background(), "ORD_20260831_001", "", "", "admin_1")
	assert.ErrorIs(t, err, lifecycle.ErrCancellationReason)
	assert.Empty(t, repo.history)
}

func TestCancelStoresReason(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)
	seedOrder(repo, lifecycle.StatusReady, lifecycle.TypeDelivery)

	updated, err := svc.Cancel(context.Background(), "ORD_20260831_001", "customer_request", "phoned in", "admin_1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCancelled, updated.Status)
	assert.Equal(t, "customer_request", updated.CancellationReason)
	assert.Equal(t, "phoned in", updated.CancellationNotes)
	assert.Equal(t, []string{"cancelled"}, broker.statusUpdates)
}

func TestCancelRetryIsNoOp(t *testing.T) {
	repo := newFakeOrderRepo()
	broker := &fakeBroker{}
	svc := newTestOrderService(repo, broker)
	seedOrder(repo, lifecycle.StatusReady, lifecycle.TypeDelivery)

	_, err := svc.Cancel(context.Background(), "ORD_20260831_001", "customer_request", "", "admin_1")
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), "ORD_20260831_001", "customer_request", "", "admin_1")
	require.NoError(t, err)

	// The retry writes no second history row and publishes no second event.
	assert.Len(t, repo.history, 1)
	assert.Len(t, broker.statusUpdates, 1)
}

func TestStatsTodayExcludesCancelledRevenue(t *testing.T) {
	repo := newFakeOrderRepo()
	now := time.Now().UTC()
	repo.merged = []reports.Order{
		{ID: "a", Status: "completed", TotalAmount: 100, CreatedAt: now},
		{ID: "b", Status: "preparing", TotalAmount: 60, CreatedAt: now},
		{ID: "c", Status: "cancelled", TotalAmount: 999, CreatedAt: now},
	}
	svc := newTestOrderService(repo, &fakeBroker{})

	stats, err := svc.StatsToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1, stats.CancelledOrders)
	assert.InDelta(t, 160.0, stats.Revenue, 0.001)
}
