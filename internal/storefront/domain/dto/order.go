package dto

type OrderRequest struct {
	CustomerName    string  `json:"customer_name"`
	Phone           string  `json:"phone,omitempty"`
	Email           string  `json:"email,omitempty"`
	OrderType       string  `json:"order_type"`
	DeliveryAddress string  `json:"delivery_address,omitempty"`
	UserID          *string `json:"user_id,omitempty"`
	Items           []Item  `json:"items"`
}

type Item struct {
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderResponse struct {
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type StatusResponse struct {
	OrderNumber   string `json:"order_number"`
	CurrentStatus string `json:"current_status"`
	OrderType     string `json:"order_type"`
	UpdatedAt     string `json:"updated_at"`
}

type HistoryRow struct {
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status"`
	Note      string `json:"note,omitempty"`
	Timestamp string `json:"timestamp"`
}
