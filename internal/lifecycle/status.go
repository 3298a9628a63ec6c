package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus      = errors.New("invalid status for this order kind")
	ErrInvalidTransition  = errors.New("transition not allowed")
	ErrTerminalOrder      = errors.New("order is in a terminal status")
	ErrCancellationReason = errors.New("cancellation reason is required")
)

// OrderType distinguishes how an order reaches the customer. Kiosk orders
// reuse the same two values, read as dine-in / take-out on the kiosk side.
type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

// OnlineStatus is the storefront order vocabulary. KioskStatus is a
// separate type on purpose: the two vocabularies share spellings for
// pending_payment and cancelled, but a raw string must never cross from
// one to the other without going through a validating parser.
type OnlineStatus string

const (
	StatusPending        OnlineStatus = "pending"
	StatusPendingPayment OnlineStatus = "pending_payment"
	StatusPreparing      OnlineStatus = "preparing"
	StatusReady          OnlineStatus = "ready"
	StatusOutForDelivery OnlineStatus = "out_for_delivery"
	StatusCompleted      OnlineStatus = "completed"
	StatusCancelled      OnlineStatus = "cancelled"
)

type KioskStatus string

const (
	KioskPendingPayment  KioskStatus = "pending_payment"
	KioskPaymentReceived KioskStatus = "payment_received"
	KioskCancelled       KioskStatus = "cancelled"
)

func (s OnlineStatus) String() string { return string(s) }
func (s KioskStatus) String() string  { return string(s) }

func ParseOnlineStatus(raw string) (OnlineStatus, error) {
	switch s := OnlineStatus(raw); s {
	case StatusPending, StatusPendingPayment, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q is not an online order status", ErrInvalidStatus, raw)
}

func ParseKioskStatus(raw string) (KioskStatus, error) {
	switch s := KioskStatus(raw); s {
	case KioskPendingPayment, KioskPaymentReceived, KioskCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q is not a kiosk order status", ErrInvalidStatus, raw)
}

func ParseOrderType(raw string) (OrderType, error) {
	switch t := OrderType(raw); t {
	case TypeDelivery, TypePickup:
		return t, nil
	}
	return "", fmt.Errorf("undefined order type: %q", raw)
}

// IsTerminal reports whether no further transition is defined.
func (s OnlineStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s KioskStatus) IsTerminal() bool {
	return s == KioskCancelled
}

// NextStatus returns the single legal next status for an online order, or
// false when the current status is terminal. There is intentionally no
// skip-ahead: the admin "advance" action moves one step at a time.
func NextStatus(current OnlineStatus, orderType OrderType) (OnlineStatus, bool) {
	switch current {
	case StatusPending:
		return StatusPendingPayment, true
	case StatusPendingPayment:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		if orderType == TypeDelivery {
			return StatusOutForDelivery, true
		}
		return StatusCompleted, true
	case StatusOutForDelivery:
		return StatusCompleted, true
	}
	return "", false
}

// kioskTransitions is the kiosk reachability table. payment_received is
// not terminal: it can still be cancelled until the order is fulfilled
// (completed_at set), which is tracked outside the status field.
var kioskTransitions = map[KioskStatus][]KioskStatus{
	KioskPendingPayment:  {KioskPaymentReceived, KioskCancelled},
	KioskPaymentReceived: {KioskCancelled},
	KioskCancelled:       {},
}

func canKioskTransition(from, to KioskStatus) bool {
	for _, s := range kioskTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
