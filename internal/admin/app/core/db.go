package core

import (
	"context"
	"time"

	"tavolo/internal/admin/domain/models"
	"tavolo/internal/ban"
	"tavolo/internal/lifecycle"
	"tavolo/internal/reports"
)

// OrderFilter narrows the merged order listing. Zero values mean "any".
type OrderFilter struct {
	Status string
	Source string
	From   time.Time
	To     time.Time
}

type IOrderRepo interface {
	GetOnlineByNumber(ctx context.Context, orderNumber string) (lifecycle.Order, error)
	// UpdateOnlineStatus persists the already-validated order snapshot and
	// appends its history row in one transaction.
	UpdateOnlineStatus(ctx context.Context, order lifecycle.Order, entry lifecycle.HistoryEntry) error
	// List returns merged online and kiosk orders, newest first, without
	// line items.
	List(ctx context.Context, filter OrderFilter) ([]reports.Order, error)
	// FetchWindow returns merged orders created in [from, to) with line
	// items attached, for report aggregation.
	FetchWindow(ctx context.Context, from, to time.Time) ([]reports.Order, error)
}

type IBanRepo interface {
	Insert(ctx context.Context, rec ban.Record) (ban.Record, error)
	// Lift flips is_active off on one ban row; the row itself stays.
	Lift(ctx context.Context, id string) (ban.Record, error)
	HistoryFor(ctx context.Context, customerID string) ([]ban.Record, error)
}

type IMenuRepo interface {
	ListSizes(ctx context.Context) ([]models.SizeOption, error)
	CreateSize(ctx context.Context, s models.SizeOption) (models.SizeOption, error)
	GetSize(ctx context.Context, id string) (models.SizeOption, error)
	UpdateSize(ctx context.Context, s models.SizeOption) error
	LinkItemSize(ctx context.Context, link models.ItemSize) (models.ItemSize, error)
	ListItemSizes(ctx context.Context, foodItem string) ([]models.ItemSize, error)
}
