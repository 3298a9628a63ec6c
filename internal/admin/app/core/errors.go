package core

import "errors"

var (
	ErrParseCmd = errors.New("failed to parse command")

	ErrDBConn  = errors.New("failed to connect to database")
	ErrRMQConn = errors.New("failed to connect to RabbitMQ")

	ErrOrderNotFound = errors.New("order not found")
	ErrBanNotFound   = errors.New("ban record not found")
	ErrSizeNotFound  = errors.New("size option not found")

	ErrFieldIsEmpty   = errors.New("required field is empty")
	ErrBadMultiplier  = errors.New("price multiplier must be positive")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrBadTimeWindow  = errors.New("invalid time window")
	ErrUnknownSource  = errors.New("unknown order source")
	ErrUnknownFormat  = errors.New("unknown export format")
)
