package core

const (
	WaitTime = 10 // seconds, request timeout budget

	MinItems = 1
	MaxItems = 20
)

type KioskParams struct {
	Port int
}
