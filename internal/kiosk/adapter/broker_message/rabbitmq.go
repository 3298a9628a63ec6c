package brokermessage

import (
	"context"
	"encoding/json"
	"time"

	"tavolo/internal/lifecycle"
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

func (b *Broker) PushCreated(ctx context.Context, order lifecycle.KioskOrder) error {
	msg := rabbitmq.OrderCreatedMessage{
		OrderNumber:  order.OrderNumber,
		Source:       "kiosk",
		OrderType:    string(order.OrderType),
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		CreatedAt:    order.CreatedAt,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rmq.Publish(ctx, rabbitmq.OrdersExchange, rabbitmq.KioskCreatedKey, body)
}

func (b *Broker) PushStatusUpdate(ctx context.Context, orderNumber, oldStatus, newStatus, changedBy string) error {
	msg := rabbitmq.StatusUpdateMessage{
		OrderNumber: orderNumber,
		Source:      "kiosk",
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
