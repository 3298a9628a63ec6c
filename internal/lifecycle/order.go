package lifecycle

import "time"

// Order is a storefront (online) order.
type Order struct {
	ID                 string       `json:"id"`
	OrderNumber        string       `json:"order_number"`
	OrderType          OrderType    `json:"order_type"`
	Status             OnlineStatus `json:"status"`
	CustomerName       string       `json:"customer_name"`
	Phone              string       `json:"phone,omitempty"`
	Email              string       `json:"email,omitempty"`
	DeliveryAddress    string       `json:"delivery_address,omitempty"`
	UserID             *string      `json:"user_id,omitempty"`
	TotalAmount        float64      `json:"total_amount"`
	DeliveryFee        float64      `json:"delivery_fee"`
	CancellationReason string       `json:"cancellation_reason,omitempty"`
	CancellationNotes  string       `json:"cancellation_notes,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// KioskOrder is an in-store self-service order that gets paid at the
// cashier station. CompletedAt is a fulfilment side channel: once payment
// is received, setting it marks the order fulfilled without moving Status.
// "payment_received with nil CompletedAt" (awaiting fulfilment) and
// "payment_received with CompletedAt set" (fulfilled) are distinct
// operational states and must not be conflated.
type KioskOrder struct {
	ID                 string      `json:"id"`
	OrderNumber        string      `json:"order_number"`
	OrderType          OrderType   `json:"order_type"`
	Status             KioskStatus `json:"status"`
	CustomerName       string      `json:"customer_name"`
	TotalAmount        float64     `json:"total_amount"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	CancellationNotes  string      `json:"cancellation_notes,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}

// HistoryEntry is one row of the append-only order status audit trail.
type HistoryEntry struct {
	OrderID   string    `json:"order_id"`
	OldStatus *string   `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	ChangedBy *string   `json:"changed_by,omitempty"`
	Note      string    `json:"note"`
	ChangedAt time.Time `json:"changed_at"`
}
