package models

// SizeOption is a menu-wide size (e.g. small, large) with a price
// multiplier applied to an item's base price.
type SizeOption struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"price_multiplier"`
	IsActive        bool    `json:"is_active"`
	SortOrder       int     `json:"sort_order"`
}

// ItemSize links a food item to a size option. CustomPriceMultiplier, when
// set, overrides the size option's own multiplier for this item only.
type ItemSize struct {
	ID                    string   `json:"id"`
	FoodItem              string   `json:"food_item"`
	SizeOptionID          string   `json:"size_option_id"`
	SizeName              string   `json:"size_name,omitempty"`
	IsAvailable           bool     `json:"is_available"`
	CustomPriceMultiplier *float64 `json:"custom_price_multiplier,omitempty"`
}

// EffectiveMultiplier resolves the multiplier that applies to this link:
// the per-item override when present, the size option's otherwise.
func (l ItemSize) EffectiveMultiplier(size SizeOption) float64 {
	if l.CustomPriceMultiplier != nil {
		return *l.CustomPriceMultiplier
	}
	return size.PriceMultiplier
}
