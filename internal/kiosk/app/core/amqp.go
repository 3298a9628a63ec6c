package core

import (
	"context"

	"tavolo/internal/lifecycle"
)

type IBroker interface {
	Close() error
	PushCreated(ctx context.Context, order lifecycle.KioskOrder) error
	PushStatusUpdate(ctx context.Context, orderNumber, oldStatus, newStatus, changedBy string) error
}
