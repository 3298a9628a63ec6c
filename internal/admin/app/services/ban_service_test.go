package services

import (
	"context"
	"testing"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/domain/dto"
	"tavolo/internal/ban"
	"tavolo/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBanRepo struct {
	records map[string]ban.Record
}

func newFakeBanRepo() *fakeBanRepo {
	return &fakeBanRepo{records: make(map[string]ban.Record)}
}

func (f *fakeBanRepo) Insert(_ context.Context, rec ban.Record) (ban.Record, error) {
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeBanRepo) Lift(_ context.Context, id string) (ban.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return ban.Record{}, core.ErrBanNotFound
	}
	rec.IsActive = false
	f.records[id] = rec
	return rec, nil
}

func (f *fakeBanRepo) HistoryFor(_ context.Context, customerID string) ([]ban.Record, error) {
	var out []ban.Record
	for _, rec := range f.records {
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func newTestBanService(repo *fakeBanRepo) *BanService {
	mylog, _ := logger.New("ERROR")
	return NewBanService(repo, mylog)
}

func TestCreateBanPermanent(t *testing.T) {
	repo := newFakeBanRepo()
	svc := newTestBanService(repo)

	rec, err := svc.Create(context.Background(), dto.BanRequest{
		CustomerID: "cust-1",
		Reason:     "fraud",
	}, "admin_1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.IsActive)
	assert.Nil(t, rec.BannedUntil)
	assert.Equal(t, "admin_1", rec.BannedBy)
}

func TestCreateBanUnknownReason(t *testing.T) {
	svc := newTestBanService(newFakeBanRepo())

	_, err := svc.Create(context.Background(), dto.BanRequest{
		CustomerID: "cust-1",
		Reason:     "felt_like_it",
	}, "admin_1")
	assert.ErrorIs(t, err, ban.ErrUnknownReason)
}

func TestCreateBanOtherNeedsCustomReason(t *testing.T) {
	svc := newTestBanService(newFakeBanRepo())

	_, err := svc.Create(context.Background(), dto.BanRequest{
		CustomerID: "cust-1",
		Reason:     "other",
	}, "admin_1")
	assert.ErrorIs(t, err, ban.ErrCustomReasonNeeded)
}

func TestLiftKeepsHistory(t *testing.T) {
	repo := newFakeBanRepo()
	svc := newTestBanService(repo)

	rec, err := svc.Create(context.Background(), dto.BanRequest{
		CustomerID: "cust-1",
		Reason:     "abuse",
	}, "admin_1")
	require.NoError(t, err)

	lifted, err := svc.Lift(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.False(t, lifted.IsActive)

	history, banned, err := svc.History(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.False(t, banned)
}

func TestHistoryReportsExpiredBanAsNotBanned(t *testing.T) {
	repo := newFakeBanRepo()
	svc := newTestBanService(repo)

	until := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	_, err := svc.Create(context.Background(), dto.BanRequest{
		CustomerID:  "cust-1",
		Reason:      "repeated_no_show",
		BannedUntil: until,
	}, "admin_1")
	require.NoError(t, err)

	// The row is still active in storage; only the live gate says no.
	history, banned, err := svc.History(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsActive)
	assert.False(t, banned)
}

func TestLiftUnknownBan(t *testing.T) {
	svc := newTestBanService(newFakeBanRepo())

	_, err := svc.Lift(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrBanNotFound)
}
