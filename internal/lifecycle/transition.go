package lifecycle

import (
	"fmt"
	"time"
)

// TransitionOpts carries the optional metadata of a status change.
// Now is the commit timestamp; a zero value means time.Now().
type TransitionOpts struct {
	Note               string
	ChangedBy          string
	CancellationReason string
	CancellationNotes  string
	Now                time.Time
}

func (o TransitionOpts) at() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

func (o TransitionOpts) note(target string) string {
	if o.Note != "" {
		return o.Note
	}
	return fmt.Sprintf("Status changed to %s", target)
}

func (o TransitionOpts) changedBy() *string {
	if o.ChangedBy == "" {
		return nil
	}
	by := o.ChangedBy
	return &by
}

// ApplyTransition validates and applies a status change to an online
// order. It returns the updated order together with the single history
// row the caller must commit in the same transaction as the order update.
//
// A target equal to the current status is a no-op (nil history entry, no
// error) so that retries of an already-committed change are safe. All
// validation happens before any field is touched.
func ApplyTransition(order Order, target OnlineStatus, opts TransitionOpts) (Order, *HistoryEntry, error) {
	if _, err := ParseOnlineStatus(string(target)); err != nil {
		return order, nil, err
	}

	if target == order.Status {
		return order, nil, nil
	}

	if order.Status.IsTerminal() {
		return order, nil, fmt.Errorf("%w: %s", ErrTerminalOrder, order.Status)
	}

	if target == StatusCancelled {
		if opts.CancellationReason == "" {
			return order, nil, ErrCancellationReason
		}
	} else {
		next, ok := NextStatus(order.Status, order.OrderType)
		if !ok || next != target {
			return order, nil, fmt.Errorf("%w: %s -> %s for %s order",
				ErrInvalidTransition, order.Status, target, order.OrderType)
		}
	}

	now := opts.at()
	old := string(order.Status)

	updated := order
	updated.Status = target
	updated.UpdatedAt = now
	if target == StatusCancelled {
		updated.CancellationReason = opts.CancellationReason
		updated.CancellationNotes = opts.CancellationNotes
	}

	entry := &HistoryEntry{
		OrderID:   order.ID,
		OldStatus: &old,
		NewStatus: string(target),
		ChangedBy: opts.changedBy(),
		Note:      opts.note(string(target)),
		ChangedAt: now,
	}
	return updated, entry, nil
}

// ApplyKioskTransition is the kiosk counterpart of ApplyTransition. Any
// target outside the kiosk vocabulary (for example "preparing") is
// rejected with ErrInvalidStatus before anything is mutated: online
// statuses must never leak onto a kiosk order.
func ApplyKioskTransition(order KioskOrder, target KioskStatus, opts TransitionOpts) (KioskOrder, *HistoryEntry, error) {
	if _, err := ParseKioskStatus(string(target)); err != nil {
		return order, nil, err
	}

	if target == order.Status {
		return order, nil, nil
	}

	if order.Status.IsTerminal() {
		return order, nil, fmt.Errorf("%w: %s", ErrTerminalOrder, order.Status)
	}

	if !canKioskTransition(order.Status, target) {
		return order, nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	if target == KioskCancelled {
		if opts.CancellationReason == "" {
			return order, nil, ErrCancellationReason
		}
		if order.CompletedAt != nil {
			return order, nil, fmt.Errorf("%w: order already fulfilled", ErrInvalidTransition)
		}
	}

	now := opts.at()
	old := string(order.Status)

	updated := order
	updated.Status = target
	updated.UpdatedAt = now
	if target == KioskCancelled {
		updated.CancellationReason = opts.CancellationReason
		updated.CancellationNotes = opts.CancellationNotes
	}

	entry := &HistoryEntry{
		OrderID:   order.ID,
		OldStatus: &old,
		NewStatus: string(target),
		ChangedBy: opts.changedBy(),
		Note:      opts.note(string(target)),
		ChangedAt: now,
	}
	return updated, entry, nil
}

// MarkKioskComplete stamps CompletedAt on a paid kiosk order. It reports
// false without touching the order when the status is not
// payment_received or CompletedAt is already set; the cashier "Mark
// Complete" button may be pressed twice and must never move the original
// fulfilment timestamp forward.
func MarkKioskComplete(order KioskOrder, now time.Time) (KioskOrder, bool) {
	if order.Status != KioskPaymentReceived || order.CompletedAt != nil {
		return order, false
	}
	updated := order
	updated.CompletedAt = &now
	updated.UpdatedAt = now
	return updated, true
}
