package core

const (
	WaitTime = 10 // seconds, request timeout budget

	MinCustomerNameLen = 2
	MaxCustomerNameLen = 60

	MinDeliveryAddressLen = 5
	MaxDeliveryAddressLen = 200

	MinItems = 1
	MaxItems = 20

	MinItemNameLen  = 1
	MaxItemNameLen  = 80
	MinItemQuantity = 1
	MaxItemQuantity = 50
	MinItemPrice    = 0.01
	MaxItemPrice    = 1000.0

	AllowedSpecialCharacters = ` -_'.`
)

type OrderParams struct {
	Port          int
	MaxConcurrent int
}
