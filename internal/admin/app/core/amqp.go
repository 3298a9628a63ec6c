package core

import "context"

type IBroker interface {
	Close() error
	PushStatusUpdate(ctx context.Context, orderNumber, oldStatus, newStatus, changedBy string) error
}
