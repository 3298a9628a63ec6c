package brokermessage

import (
	"context"
	"encoding/json"

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

func (b *Broker) PushCreated(ctx context.Context, order lifecycle.Order) error {
	msg := rabbitmq.OrderCreatedMessage{
		OrderNumber:  order.OrderNumber,
		Source:       "online",
		OrderType:    string(order.OrderType),
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
		CreatedAt:    order.CreatedAt,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rmq.Publish(ctx, rabbitmq.OrdersExchange, rabbitmq.OnlineCreatedKey, body)
}
