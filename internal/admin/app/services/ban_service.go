package services

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/domain/dto"
	"tavolo/internal/ban"
	"tavolo/internal/xpkg/logger"

	"github.com/google/uuid"
)

type BanService struct {
	banRepo core.IBanRepo
	mylog   logger.Logger
}

func NewBanService(banRepo core.IBanRepo, mylog logger.Logger) *BanService {
	return &BanService{banRepo: banRepo, mylog: mylog}
}

// Create validates and inserts a new ban row for a customer. Existing
// rows are untouched: a customer accumulates ban history over time.
func (bs *BanService) Create(ctx context.Context, req dto.BanRequest, bannedBy string) (ban.Record, error) {
	mylog := bs.mylog.Action("create_ban").With("customer_id", req.CustomerID)

	if req.CustomerID == "" {
		return ban.Record{}, fmt.Errorf("%w: customer_id", core.ErrFieldIsEmpty)
	}

	reason, err := ban.ParseReason(req.Reason)
	if err != nil {
		return ban.Record{}, err
	}

	var until *time.Time
	if req.BannedUntil != "" {
		t, err := time.Parse(time.RFC3339, req.BannedUntil)
		if err != nil {
			return ban.Record{}, fmt.Errorf("%w: banned_until: %v", core.ErrBadTimeWindow, err)
		}
		until = &t
	}

	rec, err := ban.New(req.CustomerID, reason, req.CustomReason, bannedBy, until, req.Notes, time.Now().UTC())
	if err != nil {
		return ban.Record{}, err
	}
	rec.ID = uuid.NewString()

	inserted, err := bs.banRepo.Insert(ctx, rec)
	if err != nil {
		mylog.Error("Failed to insert ban", err)
		return ban.Record{}, err
	}

	mylog.Info("Customer banned", "ban_id", inserted.ID, "reason", reason)
	return inserted, nil
}

// Lift deactivates one ban row. The row stays in the customer's history.
func (bs *BanService) Lift(ctx context.Context, id string) (ban.Record, error) {
	rec, err := bs.banRepo.Lift(ctx, id)
	if err != nil {
		return ban.Record{}, err
	}
	bs.mylog.Action("lift_ban").Info("Ban lifted", "ban_id", id, "customer_id", rec.CustomerID)
	return rec, nil
}

// History returns a customer's full ban history plus the live gate
// verdict, so an expired timed ban reads as not banned without any row
// having been touched.
func (bs *BanService) History(ctx context.Context, customerID string) ([]ban.Record, bool, error) {
	records, err := bs.banRepo.HistoryFor(ctx, customerID)
	if err != nil {
		return nil, false, err
	}
	return records, ban.IsBannedAny(records, time.Now().UTC()), nil
}
