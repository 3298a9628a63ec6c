package dto

// KioskOrderRequest is what the self-service terminal posts. OrderType is
// the kiosk-facing vocabulary (dine_in | takeout); it is mapped onto the
// stored delivery | pickup values before anything is persisted.
type KioskOrderRequest struct {
	CustomerName string `json:"customer_name,omitempty"`
	OrderType    string `json:"order_type"`
	Items        []Item `json:"items"`
}

type Item struct {
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type KioskOrderResponse struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}

type OrderView struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	OrderType   string  `json:"order_type"`
	TotalAmount float64 `json:"total_amount"`
	CompletedAt string  `json:"completed_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
