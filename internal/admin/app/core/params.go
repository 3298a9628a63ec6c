package core

const (
	// WaitTime bounds slow shutdowns and outbound publishes, in seconds.
	WaitTime = 10

	// DefaultReportWindowDays is the lookback used when a report request
	// carries no from/to bounds.
	DefaultReportWindowDays = 7
)

type AdminParams struct {
	Port int
}
