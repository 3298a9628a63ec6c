package dto

type BanRequest struct {
	CustomerID   string `json:"customer_id"`
	Reason       string `json:"reason"`
	CustomReason string `json:"custom_reason,omitempty"`
	// BannedUntil is RFC 3339; empty means permanent.
	BannedUntil string `json:"banned_until,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
