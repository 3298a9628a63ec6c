package dto

type SizeRequest struct {
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"price_multiplier"`
	SortOrder       int     `json:"sort_order"`
}

// SizePatch updates only the fields that are present.
type SizePatch struct {
	Name            *string  `json:"name,omitempty"`
	PriceMultiplier *float64 `json:"price_multiplier,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
	SortOrder       *int     `json:"sort_order,omitempty"`
}

type ItemSizeRequest struct {
	SizeOptionID          string   `json:"size_option_id"`
	IsAvailable           bool     `json:"is_available"`
	CustomPriceMultiplier *float64 `json:"custom_price_multiplier,omitempty"`
}
