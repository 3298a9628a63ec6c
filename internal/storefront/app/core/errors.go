package core

import "errors"

var (
	ErrParseCmd       = errors.New("cannot parse arguments")
	ErrModeFlag       = errors.New("--mode flag is required")
	ErrUnknownService = errors.New("unknown service mode")

	ErrDBConn  = errors.New("db connection failure")
	ErrRMQConn = errors.New("rabbitmq connection failure")

	ErrFieldIsEmpty  = errors.New("field is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrTooManyOrders = errors.New("too many orders right now, try again later")

	ErrCustomerBanned = errors.New("customer is banned from ordering")
)
