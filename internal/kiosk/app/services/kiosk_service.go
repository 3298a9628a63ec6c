package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/kiosk/domain/dto"
	"tavolo/internal/lifecycle"
	"tavolo/internal/xpkg/logger"
)

type KioskService struct {
	kioskRepo core.IKioskRepo
	broker    core.IBroker
	mylog     logger.Logger
}

func NewKioskService(kioskRepo core.IKioskRepo, broker core.IBroker, mylog logger.Logger) *KioskService {
	return &KioskService{
		kioskRepo: kioskRepo,
		broker:    broker,
		mylog:     mylog,
	}
}

// mapOrderType translates the kiosk-facing vocabulary onto the stored
// order_type values: dine_in is kept as delivery, takeout as pickup.
func mapOrderType(kioskType string) (lifecycle.OrderType, error) {
	switch kioskType {
	case "dine_in":
		return lifecycle.TypeDelivery, nil
	case "takeout":
		return lifecycle.TypePickup, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownType, kioskType)
}

func (ks *KioskService) Create(ctx context.Context, order dto.KioskOrderRequest) (lifecycle.KioskOrder, error) {
	mylog := ks.mylog.Action("create_kiosk_order")

	if err := ks.validate(order); err != nil {
		return lifecycle.KioskOrder{}, err
	}

	orderType, err := mapOrderType(order.OrderType)
	if err != nil {
		return lifecycle.KioskOrder{}, err
	}

	newOrder, err := ks.kioskRepo.Create(ctx, order, orderType)
	if err != nil {
		mylog.Error("Failed to save kiosk order", err)
		return lifecycle.KioskOrder{}, fmt.Errorf("cannot save kiosk order: %w", err)
	}

	if err := ks.broker.PushCreated(ctx, newOrder); err != nil {
		mylog.Error("Failed to publish created event", err)
		return lifecycle.KioskOrder{}, fmt.Errorf("cannot send message to broker: %w", err)
	}

	mylog.Info("Kiosk order created", "order_number", newOrder.OrderNumber)
	return newOrder, nil
}

func (ks *KioskService) validate(order dto.KioskOrderRequest) error {
	if order.OrderType == "" {
		return fmt.Errorf("order type: %w", core.ErrFieldIsEmpty)
	}
	itemsLen := len(order.Items)
	if itemsLen < core.MinItems || itemsLen > core.MaxItems {
		return fmt.Errorf("amount of items: %d, must be in range [%d, %d]", itemsLen, core.MinItems, core.MaxItems)
	}
	for i, item := range order.Items {
		if item.Name == "" {
			return fmt.Errorf("item %d: name: %w", i+1, core.ErrFieldIsEmpty)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive: %d", i+1, item.Quantity)
		}
		if item.Price <= 0 {
			return fmt.Errorf("item %d: price must be positive: %f", i+1, item.Price)
		}
	}
	return nil
}

// ConfirmPayment moves a kiosk order from pending_payment to
// payment_received after the cashier takes the money.
func (ks *KioskService) ConfirmPayment(ctx context.Context, orderNumber, cashier string) (lifecycle.KioskOrder, error) {
	return ks.transition(ctx, orderNumber, lifecycle.KioskPaymentReceived, lifecycle.TransitionOpts{
		ChangedBy: cashier,
		Note:      "Payment confirmed at cashier",
	})
}

// Cancel voids a kiosk order; a non-empty reason is required.
func (ks *KioskService) Cancel(ctx context.Context, orderNumber, cashier, reason, notes string) (lifecycle.KioskOrder, error) {
	return ks.transition(ctx, orderNumber, lifecycle.KioskCancelled, lifecycle.TransitionOpts{
		ChangedBy:          cashier,
		CancellationReason: reason,
		CancellationNotes:  notes,
	})
}

func (ks *KioskService) transition(ctx context.Context, orderNumber string, target lifecycle.KioskStatus, opts lifecycle.TransitionOpts) (lifecycle.KioskOrder, error) {
	mylog := ks.mylog.Action("kiosk_transition").With("order_number", orderNumber, "target", string(target))

	order, err := ks.kioskRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return lifecycle.KioskOrder{}, err
	}

	updated, entry, err := lifecycle.ApplyKioskTransition(order, target, opts)
	if err != nil {
		mylog.Warn("Transition rejected", "reason", err.Error())
		return lifecycle.KioskOrder{}, err
	}
	if entry == nil {
		// already at target, retry of a committed change
		return order, nil
	}

	if err := ks.kioskRepo.UpdateStatus(ctx, updated, entry); err != nil {
		mylog.Error("Failed to commit transition", err)
		return lifecycle.KioskOrder{}, err
	}

	if err := ks.broker.PushStatusUpdate(ctx, orderNumber, string(order.Status), string(target), opts.ChangedBy); err != nil {
		mylog.Error("Failed to publish status update", err)
		return lifecycle.KioskOrder{}, err
	}

	mylog.Info("Kiosk order transitioned")
	return updated, nil
}

// Complete stamps the fulfilment timestamp on a paid order. Calling it on
// an unpaid or already-fulfilled order is a warn-level no-op so the
// cashier's "Mark Complete" button can be pressed twice safely.
func (ks *KioskService) Complete(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
	mylog := ks.mylog.Action("kiosk_complete").With("order_number", orderNumber)

	order, err := ks.kioskRepo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return lifecycle.KioskOrder{}, err
	}

	updated, ok := lifecycle.MarkKioskComplete(order, time.Now().UTC())
	if !ok {
		mylog.Warn("Mark complete skipped", "status", string(order.Status), "already_completed", order.CompletedAt != nil)
		return order, nil
	}

	if err := ks.kioskRepo.MarkComplete(ctx, updated); err != nil {
		mylog.Error("Failed to persist completion", err)
		return lifecycle.KioskOrder{}, err
	}

	mylog.Info("Kiosk order fulfilled")
	return updated, nil
}

func (ks *KioskService) ListOpen(ctx context.Context) ([]lifecycle.KioskOrder, error) {
	orders, err := ks.kioskRepo.ListOpen(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrDBConn) {
			err = fmt.Errorf("cannot list open kiosk orders: %w", err)
		}
		ks.mylog.Action("kiosk_list_open").Error("Failed to list open orders", err)
		return nil, err
	}
	return orders, nil
}
