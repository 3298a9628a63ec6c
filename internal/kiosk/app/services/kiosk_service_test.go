package services

import (
	"context"
	"testing"
	"time"

	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/kiosk/domain/dto"
	"tavolo/internal/lifecycle"
	"tavolo/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKioskRepo struct {
	orders  map[string]lifecycle.KioskOrder
	history []lifecycle.HistoryEntry
}

func newFakeKioskRepo() *fakeKioskRepo {
	return &fakeKioskRepo{orders: make(map[string]lifecycle.KioskOrder)}
}

func (f *fakeKioskRepo) Create(_ context.Context, order dto.KioskOrderRequest, orderType lifecycle.OrderType) (lifecycle.KioskOrder, error) {
	newOrder := lifecycle.KioskOrder{
		ID:          "ksk-1",
		OrderNumber: "KSK_20260831_001",
		OrderType:   orderType,
		Status:      lifecycle.KioskPendingPayment,
		CreatedAt:   time.Now().UTC(),
	}
	for _, item := range order.Items {
		newOrder.TotalAmount += float64(item.Quantity) * item.Price
	}
	f.orders[newOrder.OrderNumber] = newOrder
	return newOrder, nil
}

func (f *fakeKioskRepo) GetByNumber(_ context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
	order, ok := f.orders[orderNumber]
	if !ok {
		return lifecycle.KioskOrder{}, core.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeKioskRepo) UpdateStatus(_ context.Context, order lifecycle.KioskOrder, entry *lifecycle.HistoryEntry) error {
	f.orders[order.OrderNumber] = order
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeKioskRepo) MarkComplete(_ context.Context, order lifecycle.KioskOrder) error {
	f.orders[order.OrderNumber] = order
	return nil
}

func (f *fakeKioskRepo) ListOpen(context.Context) ([]lifecycle.KioskOrder, error) {
	var open []lifecycle.KioskOrder
	for _, o := range f.orders {
		if o.Status == lifecycle.KioskPendingPayment ||
			(o.Status == lifecycle.KioskPaymentReceived && o.CompletedAt == nil) {
			open = append(open, o)
		}
	}
	return open, nil
}

type fakeKioskBroker struct {
	created       int
	statusUpdates []string
}

func (f *fakeKioskBroker) Close() error { return nil }

func (f *fakeKioskBroker) PushCreated(context.Context, lifecycle.KioskOrder) error {
	f.created++
	return nil
}

func (f *fakeKioskBroker) PushStatusUpdate(_ context.Context, _, _, newStatus, _ string) error {
	f.statusUpdates = append(f.statusUpdates, newStatus)
	return nil
}

func newTestKioskService(repo *fakeKioskRepo, broker *fakeKioskBroker) *KioskService {
	mylog, _ := logger.New("ERROR")
	return NewKioskService(repo, broker, mylog)
}

func placeOrder(t *testing.T, svc *KioskService) lifecycle.KioskOrder {
	t.Helper()
	order, err := svc.Create(context.Background(), dto.KioskOrderRequest{
		OrderType: "takeout",
		Items:     []dto.Item{{Name: "Lagman", Quantity: 2, Price: 9.0}},
	})
	require.NoError(t, err)
	return order
}

func TestCreateKioskOrder(t *testing.T) {
	repo := newFakeKioskRepo()
	broker := &fakeKioskBroker{}
	svc := newTestKioskService(repo, broker)

	order := placeOrder(t, svc)
	assert.Equal(t, lifecycle.KioskPendingPayment, order.Status)
	assert.Equal(t, lifecycle.TypePickup, order.OrderType)
	assert.Equal(t, 18.0, order.TotalAmount)
	assert.Equal(t, 1, broker.created)
}

func TestCreateKioskOrderRejectsOnlineType(t *testing.T) {
	svc := newTestKioskService(newFakeKioskRepo(), &fakeKioskBroker{})

	_, err := svc.Create(context.Background(), dto.KioskOrderRequest{
		OrderType: "delivery",
		Items:     []dto.Item{{Name: "Plov", Quantity: 1, Price: 8}},
	})
	assert.ErrorIs(t, err, core.ErrUnknownType)
}

func TestConfirmPaymentThenComplete(t *testing.T) {
	repo := newFakeKioskRepo()
	broker := &fakeKioskBroker{}
	svc := newTestKioskService(repo, broker)
	order := placeOrder(t, svc)

	paid, err := svc.ConfirmPayment(context.Background(), order.OrderNumber, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.KioskPaymentReceived, paid.Status)
	require.Len(t, repo.history, 1)
	assert.Equal(t, "payment_received", repo.history[0].NewStatus)
	assert.Equal(t, []string{"payment_received"}, broker.statusUpdates)

	done, err := svc.Complete(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	// status is untouched by fulfilment
	assert.Equal(t, lifecycle.KioskPaymentReceived, done.Status)
}

func TestCompleteIsIdempotent(t *testing.T) {
	repo := newFakeKioskRepo()
	svc := newTestKioskService(repo, &fakeKioskBroker{})
	order := placeOrder(t, svc)

	_, err := svc.ConfirmPayment(context.Background(), order.OrderNumber, "cashier-1")
	require.NoError(t, err)

	first, err := svc.Complete(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	second, err := svc.Complete(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
}

func TestCompleteBeforePaymentIsNoop(t *testing.T) {
	repo := newFakeKioskRepo()
	svc := newTestKioskService(repo, &fakeKioskBroker{})
	order := placeOrder(t, svc)

	unchanged, err := svc.Complete(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Nil(t, unchanged.CompletedAt)
}

func TestCancelRequiresReason(t *testing.T) {
	repo := newFakeKioskRepo()
	svc := newTestKioskService(repo, &fakeKioskBroker{})
	order := placeOrder(t, svc)

	_, err := svc.Cancel(context.Background(), order.OrderNumber, "cashier-1", "", "")
	assert.ErrorIs(t, err, lifecycle.ErrCancellationReason)
	assert.Empty(t, repo.history)

	cancelled, err := svc.Cancel(context.Background(), order.OrderNumber, "cashier-1", "customer_left", "")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.KioskCancelled, cancelled.Status)
}

func TestConfirmPaymentRetryIsNoop(t *testing.T) {
	repo := newFakeKioskRepo()
	broker := &fakeKioskBroker{}
	svc := newTestKioskService(repo, broker)
	order := placeOrder(t, svc)

	_, err := svc.ConfirmPayment(context.Background(), order.OrderNumber, "cashier-1")
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(context.Background(), order.OrderNumber, "cashier-1")
	require.NoError(t, err)

	// one history row, one published event despite the retry
	assert.Len(t, repo.history, 1)
	assert.Len(t, broker.statusUpdates, 1)
}
