package brokermessage

import (
	"context"
	"encoding/json"
	"time"

	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/rabbitmq"
)

type Broker struct {
	rmq *rabbitmq.RabbitMQ
}

func New(cfg *config.RabbitMQ) (*Broker, error) {
	rmq, err := rabbitmq.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Broker{rmq: rmq}, nil
}

func (b *Broker) Close() error {
	return b.rmq.Close()
}

// PushStatusUpdate publishes the change-feed event for an admin-driven
// status change on an online order. Consumers re-fetch the row; the
// payload is a refresh trigger only.
func (b *Broker) PushStatusUpdate(ctx context.Context, orderNumber, oldStatus, newStatus, changedBy string) error {
	msg := rabbitmq.StatusUpdateMessage{
		OrderNumber: orderNumber,
		Source:      "online",
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedBy:   changedBy,
		Timestamp:   time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rmq.Publish(ctx, rabbitmq.StatusExchange, "", body)
}
