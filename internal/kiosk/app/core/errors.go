package core

import "errors"

var (
	ErrParseCmd = errors.New("cannot parse arguments")

	ErrDBConn = errors.New("db connection failure")

	ErrFieldIsEmpty  = errors.New("field is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownType   = errors.New("unknown kiosk order type")
)
