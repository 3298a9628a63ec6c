package core

import (
	"context"

	"tavolo/internal/kiosk/domain/dto"
	"tavolo/internal/lifecycle"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetConn() *pgx.Conn
}

type IKioskRepo interface {
	Create(ctx context.Context, order dto.KioskOrderRequest, orderType lifecycle.OrderType) (lifecycle.KioskOrder, error)
	GetByNumber(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error)
	// UpdateStatus commits the updated order and its history row as one
	// transaction.
	UpdateStatus(ctx context.Context, order lifecycle.KioskOrder, entry *lifecycle.HistoryEntry) error
	MarkComplete(ctx context.Context, order lifecycle.KioskOrder) error
	ListOpen(ctx context.Context) ([]lifecycle.KioskOrder, error)
}
