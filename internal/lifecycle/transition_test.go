package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlineOrder(status OnlineStatus, orderType OrderType) Order {
	return Order{
		ID:           "ord-1",
		OrderNumber:  "ORD_20260831_001",
		OrderType:    orderType,
		Status:       status,
		CustomerName: "Aigerim",
		TotalAmount:  42.50,
		CreatedAt:    time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
}

func kioskOrder(status KioskStatus) KioskOrder {
	return KioskOrder{
		ID:          "ksk-1",
		OrderNumber: "KSK_20260831_001",
		OrderType:   TypePickup,
		Status:      status,
		TotalAmount: 18.00,
		CreatedAt:   time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
}

func TestApplyTransitionAdvances(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	order := onlineOrder(StatusPreparing, TypeDelivery)

	updated, entry, err := ApplyTransition(order, StatusReady, TransitionOpts{ChangedBy: "admin-7", Now: now})
	require.NoError(t, err)

	assert.Equal(t, StatusReady, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)

	require.NotNil(t, entry)
	assert.Equal(t, "ord-1", entry.OrderID)
	require.NotNil(t, entry.OldStatus)
	assert.Equal(t, "preparing", *entry.OldStatus)
	assert.Equal(t, "ready", entry.NewStatus)
	assert.Equal(t, "Status changed to ready", entry.Note)
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, "admin-7", *entry.ChangedBy)
}

func TestApplyTransitionRejectsSkipAhead(t *testing.T) {
	order := onlineOrder(StatusPending, TypeDelivery)

	_, entry, err := ApplyTransition(order, StatusReady, TransitionOpts{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, entry)
}

func TestApplyTransitionSameTargetIsNoop(t *testing.T) {
	order := onlineOrder(StatusPreparing, TypePickup)

	updated, entry, err := ApplyTransition(order, StatusPreparing, TransitionOpts{})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, order, updated)
}

func TestApplyTransitionTerminalRejected(t *testing.T) {
	order := onlineOrder(StatusCompleted, TypePickup)

	_, _, err := ApplyTransition(order, StatusCancelled, TransitionOpts{CancellationReason: "late"})
	assert.ErrorIs(t, err, ErrTerminalOrder)
}

func TestApplyTransitionCancelRequiresReason(t *testing.T) {
	order := onlineOrder(StatusPreparing, TypeDelivery)

	_, entry, err := ApplyTransition(order, StatusCancelled, TransitionOpts{})
	assert.ErrorIs(t, err, ErrCancellationReason)
	assert.Nil(t, entry)

	updated, entry, err := ApplyTransition(order, StatusCancelled, TransitionOpts{
		CancellationReason: "customer_request",
		CancellationNotes:  "called in",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Equal(t, "customer_request", updated.CancellationReason)
	assert.Equal(t, "called in", updated.CancellationNotes)
	// cancelling never touches the money on the order
	assert.Equal(t, order.TotalAmount, updated.TotalAmount)
}

func TestApplyTransitionCancelFromAnyNonTerminal(t *testing.T) {
	for _, status := range []OnlineStatus{StatusPending, StatusPendingPayment, StatusPreparing, StatusReady, StatusOutForDelivery} {
		order := onlineOrder(status, TypeDelivery)
		updated, entry, err := ApplyTransition(order, StatusCancelled, TransitionOpts{CancellationReason: "out_of_stock"})
		require.NoError(t, err, "cancel from %s", status)
		require.NotNil(t, entry)
		assert.Equal(t, StatusCancelled, updated.Status)
	}
}

func TestApplyKioskTransition(t *testing.T) {
	order := kioskOrder(KioskPendingPayment)

	updated, entry, err := ApplyKioskTransition(order, KioskPaymentReceived, TransitionOpts{ChangedBy: "cashier-1"})
	require.NoError(t, err)
	assert.Equal(t, KioskPaymentReceived, updated.Status)
	require.NotNil(t, entry)
	assert.Equal(t, "pending_payment", *entry.OldStatus)
	assert.Equal(t, "payment_received", entry.NewStatus)
}

func TestApplyKioskTransitionRejectsOnlineVocabulary(t *testing.T) {
	order := kioskOrder(KioskPendingPayment)

	_, entry, err := ApplyKioskTransition(order, KioskStatus("preparing"), TransitionOpts{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, entry)
	// the order itself must be untouched
	assert.Equal(t, KioskPendingPayment, order.Status)
}

func TestApplyKioskTransitionCancelAfterFulfilment(t *testing.T) {
	completed := time.Now()
	order := kioskOrder(KioskPaymentReceived)
	order.CompletedAt = &completed

	_, _, err := ApplyKioskTransition(order, KioskCancelled, TransitionOpts{CancellationReason: "mistake"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkKioskComplete(t *testing.T) {
	first := time.Date(2026, 8, 31, 13, 0, 0, 0, time.UTC)
	later := first.Add(10 * time.Minute)

	order := kioskOrder(KioskPaymentReceived)

	updated, ok := MarkKioskComplete(order, first)
	require.True(t, ok)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, first, *updated.CompletedAt)

	// second press keeps the original timestamp
	again, ok := MarkKioskComplete(updated, later)
	assert.False(t, ok)
	assert.Equal(t, first, *again.CompletedAt)
}

func TestMarkKioskCompleteRequiresPayment(t *testing.T) {
	order := kioskOrder(KioskPendingPayment)

	updated, ok := MarkKioskComplete(order, time.Now())
	assert.False(t, ok)
	assert.Nil(t, updated.CompletedAt)
}
