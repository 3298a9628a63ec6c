package services

import (
	"context"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/lifecycle"
	"tavolo/internal/reports"
	"tavolo/internal/xpkg/logger"
	"tavolo/internal/xpkg/metrics"
)

type OrderService struct {
	orderRepo core.IOrderRepo
	broker    core.IBroker
	mylog     logger.Logger
	loc       *time.Location
}

func NewOrderService(orderRepo core.IOrderRepo, broker core.IBroker, mylog logger.Logger, loc *time.Location) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		broker:    broker,
		mylog:     mylog,
		loc:       loc,
	}
}

// Advance moves an online order one step forward along its lifecycle.
// There is intentionally no skip-ahead: the next status is looked up, not
// supplied by the caller.
func (os *OrderService) Advance(ctx context.Context, orderNumber, changedBy string) (lifecycle.Order, error) {
	mylog := os.mylog.Action("advance_order").With("order_number", orderNumber)

	order, err := os.orderRepo.GetOnlineByNumber(ctx, orderNumber)
	if err != nil {
		metrics.RecordOrderOperation("advance", false)
		return lifecycle.Order{}, err
	}

	next, ok := lifecycle.NextStatus(order.Status, order.OrderType)
	if !ok {
		metrics.RecordOrderOperation("advance", false)
		mylog.Warn("Order is terminal, cannot advance", "status", order.Status)
		return lifecycle.Order{}, lifecycle.ErrTerminalOrder
	}

	updated, err := os.transition(ctx, order, next, lifecycle.TransitionOpts{ChangedBy: changedBy})
	metrics.RecordOrderOperation("advance", err == nil)
	if err != nil {
		return lifecycle.Order{}, err
	}

	mylog.Info("Order advanced", "old_status", order.Status, "new_status", updated.Status)
	return updated, nil
}

// Cancel moves an online order to cancelled; a non-empty reason is
// required before anything is written.
func (os *OrderService) Cancel(ctx context.Context, orderNumber, reason, notes, changedBy string) (lifecycle.Order, error) {
	mylog := os.mylog.Action("cancel_order").With("order_number", orderNumber)

	order, err := os.orderRepo.GetOnlineByNumber(ctx, orderNumber)
	if err != nil {
		metrics.RecordOrderOperation("cancel", false)
		return lifecycle.Order{}, err
	}

	updated, err := os.transition(ctx, order, lifecycle.StatusCancelled, lifecycle.TransitionOpts{
		ChangedBy:          changedBy,
		CancellationReason: reason,
		CancellationNotes:  notes,
	})
	metrics.RecordOrderOperation("cancel", err == nil)
	if err != nil {
		return lifecycle.Order{}, err
	}

	mylog.Info("Order cancelled", "reason", reason)
	return updated, nil
}

func (os *OrderService) transition(ctx context.Context, order lifecycle.Order, target lifecycle.OnlineStatus, opts lifecycle.TransitionOpts) (lifecycle.Order, error) {
	updated, entry, err := lifecycle.ApplyTransition(order, target, opts)
	if err != nil {
		return lifecycle.Order{}, err
	}
	if entry == nil {
		// Retried request that already landed; nothing to write.
		return order, nil
	}

	if err := os.orderRepo.UpdateOnlineStatus(ctx, updated, *entry); err != nil {
		return lifecycle.Order{}, err
	}

	oldStatus := ""
	if entry.OldStatus != nil {
		oldStatus = *entry.OldStatus
	}
	changedBy := ""
	if entry.ChangedBy != nil {
		changedBy = *entry.ChangedBy
	}
	if err := os.broker.PushStatusUpdate(ctx, updated.OrderNumber, oldStatus, entry.NewStatus, changedBy); err != nil {
		os.mylog.Action("status_update_publish_failed").Error("Failed to publish status update", err,
			"order_number", updated.OrderNumber)
		return lifecycle.Order{}, err
	}
	return updated, nil
}

func (os *OrderService) List(ctx context.Context, filter core.OrderFilter) ([]reports.Order, error) {
	return os.orderRepo.List(ctx, filter)
}

// StatsToday aggregates today's merged online and kiosk orders on the
// business calendar day.
func (os *OrderService) StatsToday(ctx context.Context) (lifecycle.Stats, error) {
	now := time.Now().In(os.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, os.loc)

	merged, err := os.orderRepo.List(ctx, core.OrderFilter{From: dayStart.UTC()})
	if err != nil {
		return lifecycle.Stats{}, err
	}

	return lifecycle.ComputeDailyStats(statOrders(merged), now, os.loc), nil
}
