package rabbitmq

import "time"

// OrderCreatedMessage is published on the orders topic exchange when a
// storefront or kiosk order is accepted.
type OrderCreatedMessage struct {
	OrderNumber  string    `json:"order_number"`
	Source       string    `json:"source"`
	OrderType    string    `json:"order_type"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatusUpdateMessage is the change-feed event published on the status
// fanout exchange after every committed status change. Consumers treat it
// as a refresh trigger only and re-fetch the row; the payload is never
// authoritative.
type StatusUpdateMessage struct {
	OrderNumber string    `json:"order_number"`
	Source      string    `json:"source"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	ChangedBy   string    `json:"changed_by,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
