package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyRow struct {
	oldStatus *string
	newStatus string
	changedBy *string
	changedAt time.Time
}

// fakeRows walks a fixed row set and then reports failErr from Err, the way
// a dropped connection surfaces mid-iteration.
type fakeRows struct {
	rows    []historyRow
	pos     int
	failErr error
	closed  bool
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.rows[f.pos-1]
	*dest[0].(*string) = "order-1"
	*dest[1].(**string) = row.oldStatus
	*dest[2].(*string) = row.newStatus
	*dest[3].(**string) = row.changedBy
	*dest[4].(*string) = ""
	*dest[5].(*time.Time) = row.changedAt
	return nil
}

func (f *fakeRows) Err() error {
	if f.pos >= len(f.rows) {
		return f.failErr
	}
	return nil
}

func (f *fakeRows) Close()                                       { f.closed = true }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func TestScanHistoryReadsFullTrail(t *testing.T) {
	system := "system"
	rows := &fakeRows{rows: []historyRow{
		{newStatus: "pending", changedBy: &system, changedAt: time.Now()},
		{oldStatus: strPtr("pending"), newStatus: "preparing", changedBy: &system, changedAt: time.Now()},
	}}

	history, err := scanHistory(rows)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "preparing", history[1].NewStatus)
	assert.True(t, rows.closed)
}

func TestScanHistorySurfacesConnError(t *testing.T) {
	connErr := errors.New("unexpected EOF")
	rows := &fakeRows{
		rows:    []historyRow{{newStatus: "pending", changedAt: time.Now()}},
		failErr: connErr,
	}

	history, err := scanHistory(rows)
	require.ErrorIs(t, err, connErr)
	assert.Nil(t, history)
}

func strPtr(s string) *string { return &s }
