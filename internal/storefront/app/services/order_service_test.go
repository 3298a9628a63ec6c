package services

import (
	"context"
	"testing"
	"time"

	"tavolo/internal/ban"
	"tavolo/internal/lifecycle"
	"tavolo/internal/storefront/app/core"
	"tavolo/internal/storefront/domain/dto"
	"tavolo/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	created []dto.OrderRequest
	bans    map[string][]ban.Record
}

func (f *fakeRepo) Create(_ context.Context, order dto.OrderRequest) (lifecycle.Order, error) {
	f.created = append(f.created, order)
	return lifecycle.Order{
		OrderNumber:  "ORD_20260831_001",
		Status:       lifecycle.StatusPending,
		CustomerName: order.CustomerName,
	}, nil
}

func (f *fakeRepo) GetByNumber(context.Context, string) (lifecycle.Order, error) {
	return lifecycle.Order{}, core.ErrOrderNotFound
}

func (f *fakeRepo) GetHistory(context.Context, string) ([]lifecycle.HistoryEntry, error) {
	return nil, core.ErrOrderNotFound
}

func (f *fakeRepo) BanHistory(_ context.Context, customerID string) ([]ban.Record, error) {
	return f.bans[customerID], nil
}

type fakeBroker struct {
	published int
}

func (f *fakeBroker) Close() error { return nil }

func (f *fakeBroker) PushCreated(context.Context, lifecycle.Order) error {
	f.published++
	return nil
}

func newTestService(repo *fakeRepo, broker *fakeBroker) *OrderService {
	mylog, _ := logger.New("ERROR")
	return NewOrderService(repo, broker, mylog)
}

func validRequest() dto.OrderRequest {
	return dto.OrderRequest{
		CustomerName: "John Doe",
		Phone:        "+77001234567",
		OrderType:    "pickup",
		Items:        []dto.Item{{Name: "Margherita", Quantity: 1, Price: 12.5}},
	}
}

func TestCreatePublishesAfterInsert(t *testing.T) {
	repo := &fakeRepo{bans: map[string][]ban.Record{}}
	broker := &fakeBroker{}
	svc := newTestService(repo, broker)

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "ORD_20260831_001", order.OrderNumber)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, 1, broker.published)
}

func TestCreateRejectsBannedCustomer(t *testing.T) {
	repo := &fakeRepo{bans: map[string][]ban.Record{
		"+77001234567": {{IsActive: true}},
	}}
	broker := &fakeBroker{}
	svc := newTestService(repo, broker)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, core.ErrCustomerBanned)
	assert.Empty(t, repo.created)
	assert.Zero(t, broker.published)
}

func TestCreateAllowsExpiredBan(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	repo := &fakeRepo{bans: map[string][]ban.Record{
		"+77001234567": {{IsActive: true, BannedUntil: &past}},
	}}
	svc := newTestService(repo, &fakeBroker{})

	_, err := svc.Create(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestValidateOrder(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeBroker{})

	tests := []struct {
		name    string
		mutate  func(*dto.OrderRequest)
		wantErr bool
	}{
		{"valid pickup", func(r *dto.OrderRequest) {}, false},
		{"valid delivery", func(r *dto.OrderRequest) {
			r.OrderType = "delivery"
			r.DeliveryAddress = "12 Abay Ave, apt 3"
		}, false},
		{"empty customer name", func(r *dto.OrderRequest) { r.CustomerName = "" }, true},
		{"name with illegal chars", func(r *dto.OrderRequest) { r.CustomerName = "Bob<script>" }, true},
		{"unknown order type", func(r *dto.OrderRequest) { r.OrderType = "drone" }, true},
		{"kiosk type rejected online", func(r *dto.OrderRequest) { r.OrderType = "dine_in" }, true},
		{"delivery without address", func(r *dto.OrderRequest) { r.OrderType = "delivery" }, true},
		{"no items", func(r *dto.OrderRequest) { r.Items = nil }, true},
		{"zero quantity", func(r *dto.OrderRequest) { r.Items[0].Quantity = 0 }, true},
		{"negative price", func(r *dto.OrderRequest) { r.Items[0].Price = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := svc.ValidateOrder(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetStatusNotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeBroker{})

	_, err := svc.GetStatus(context.Background(), "ORD_X")
	assert.ErrorIs(t, err, core.ErrOrderNotFound)
}
