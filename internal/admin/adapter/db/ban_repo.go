package db

import (
	"context"
	"errors"
	"fmt"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/ban"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BanRepo struct {
	pool *pgxpool.Pool
}

func NewBanRepo(pool *pgxpool.Pool) *BanRepo {
	return &BanRepo{pool: pool}
}

const banColumns = `
	id, customer_id, ban_reason, COALESCE(custom_reason, ''),
	banned_at, banned_by, banned_until, is_active, COALESCE(notes, '')
`

func scanBan(row pgx.Row) (ban.Record, error) {
	var rec ban.Record
	err := row.Scan(
		&rec.ID, &rec.CustomerID, &rec.Reason, &rec.CustomReason,
		&rec.BannedAt, &rec.BannedBy, &rec.BannedUntil, &rec.IsActive, &rec.Notes,
	)
	return rec, err
}

func (br *BanRepo) Insert(ctx context.Context, rec ban.Record) (ban.Record, error) {
	_, err := br.pool.Exec(ctx, `
		INSERT INTO customer_bans (
			id, customer_id, ban_reason, custom_reason,
			banned_at, banned_by, banned_until, is_active, notes
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''))
	`,
		rec.ID, rec.CustomerID, rec.Reason, rec.CustomReason,
		rec.BannedAt, rec.BannedBy, rec.BannedUntil, rec.IsActive, rec.Notes,
	)
	if err != nil {
		return ban.Record{}, fmt.Errorf("failed to insert ban: %w", err)
	}
	return rec, nil
}

// Lift flips is_active off and returns the updated row. The row is never
// deleted; lifted bans stay visible in the customer's history.
func (br *BanRepo) Lift(ctx context.Context, id string) (ban.Record, error) {
	q := `
	UPDATE customer_bans SET is_active = FALSE WHERE id = $1
	RETURNING ` + banColumns
	rec, err := scanBan(br.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ban.Record{}, core.ErrBanNotFound
		}
		return ban.Record{}, err
	}
	return rec, nil
}

func (br *BanRepo) HistoryFor(ctx context.Context, customerID string) ([]ban.Record, error) {
	q := `
	SELECT ` + banColumns + `
	FROM customer_bans
	WHERE customer_id = $1
	ORDER BY banned_at DESC
	`
	rows, err := br.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ban.Record
	for rows.Next() {
		rec, err := scanBan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
