package core

import (
	"context"

	"tavolo/internal/lifecycle"
)

type IBroker interface {
	Close() error
	PushCreated(ctx context.Context, order lifecycle.Order) error
}
