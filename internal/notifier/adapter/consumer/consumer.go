package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tavolo/internal/xpkg/config"
	"tavolo/internal/xpkg/logger"
	"tavolo/internal/xpkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// maxHandlers bounds how many status updates are processed at once.
const maxHandlers = 8

type Consumer struct {
	cfg    *config.Config
	mylog  logger.Logger
	rmq    *rabbitmq.RabbitMQ
	ctx    context.Context
	appCtx context.Context

	mu sync.Mutex
}

func New(ctx, appCtx context.Context, cfg *config.Config, mylog logger.Logger) *Consumer {
	return &Consumer{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
	}
}

// Run connects to the broker and consumes the status fanout queue until
// the context is cancelled.
func (c *Consumer) Run() error {
	mylog := c.mylog.Action("notifier_started")

	rmq, err := rabbitmq.Connect(c.cfg.RMQ)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	c.mu.Lock()
	c.rmq = rmq
	c.mu.Unlock()
	mylog.Action("mb_connected").Info("Successful message broker connection")

	deliveries, err := rmq.Consume(rabbitmq.StatusQueue, "notifier")
	if err != nil {
		return fmt.Errorf("failed to consume from rabbitmq: %w", err)
	}

	return c.work(deliveries)
}

func (c *Consumer) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mylog.Action("graceful_shutdown_started").Info("Shutting down notifier")

	if c.rmq != nil {
		if err := c.rmq.Close(); err != nil {
			c.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		c.mylog.Action("mb_closed").Info("Message broker closed")
	}

	c.mylog.Action("graceful_shutdown_completed").Info("Notifier shut down gracefully")
	return nil
}

func (c *Consumer) work(deliveries <-chan amqp.Delivery) error {
	g := &errgroup.Group{}
	g.SetLimit(maxHandlers)

	for {
		select {
		case <-c.ctx.Done():
			c.mylog.Action("work_shutdown").Info("Stopping message consumption")
			return g.Wait()

		case msg, ok := <-deliveries:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				c.handle(msg)
				return nil
			})
		}
	}
}

func (c *Consumer) handle(msg amqp.Delivery) {
	var update rabbitmq.StatusUpdateMessage
	if err := json.Unmarshal(msg.Body, &update); err != nil {
		// Poison message: never requeue, let the DLX keep it.
		c.mylog.Action("unmarshal_failed").Error("Failed to parse status update", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.mylog.Action("nack_failed").Error("Failed to nack poison message", nackErr)
		}
		return
	}

	c.mylog.WithGroup("details").
		With("order_number", update.OrderNumber, "source", update.Source, "new_status", update.NewStatus).
		Action("notification_received").Info("Received status update")

	changedBy := update.ChangedBy
	if changedBy == "" {
		changedBy = "system"
	}
	fmt.Printf("Notification for order %s: Status changed from '%s' to '%s' by %s.\n",
		update.OrderNumber, update.OldStatus, update.NewStatus, changedBy)

	if err := msg.Ack(false); err != nil {
		c.mylog.Action("ack_failed").Error("Failed to ack message", err)
	}
}
