package core

import (
	"context"

	"tavolo/internal/ban"
	"tavolo/internal/lifecycle"
	"tavolo/internal/storefront/domain/dto"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetConn() *pgx.Conn
}

type IOrderRepo interface {
	Create(ctx context.Context, order dto.OrderRequest) (lifecycle.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (lifecycle.Order, error)
	GetHistory(ctx context.Context, orderNumber string) ([]lifecycle.HistoryEntry, error)
	BanHistory(ctx context.Context, customerID string) ([]ban.Record, error)
}
