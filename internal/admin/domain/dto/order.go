package dto

type CancelRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes,omitempty"`
}
