package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolo/internal/kiosk/app/core"
	"tavolo/internal/kiosk/domain/dto"
	"tavolo/internal/lifecycle"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type KioskRepo struct {
	db  core.IDB
	loc *time.Location
}

func NewKioskRepo(db core.IDB, loc *time.Location) *KioskRepo {
	return &KioskRepo{db: db, loc: loc}
}

// Create inserts the kiosk order, its items and the initial history row
// in one transaction. Kiosk orders start at pending_payment and are paid
// at the cashier station.
func (kr *KioskRepo) Create(ctx context.Context, order dto.KioskOrderRequest, orderType lifecycle.OrderType) (lifecycle.KioskOrder, error) {
	if err := kr.db.IsAlive(); err != nil {
		return lifecycle.KioskOrder{}, core.ErrDBConn
	}

	currentDate := time.Now().In(kr.loc).Format("20060102")

	tx, err := kr.db.GetConn().Begin(ctx)
	if err != nil {
		return lifecycle.KioskOrder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM kiosk_orders WHERE order_number LIKE 'KSK_' || $1 || '%'`,
		currentDate,
	).Scan(&orderCount)
	if err != nil {
		return lifecycle.KioskOrder{}, fmt.Errorf("failed to count today's kiosk orders: %w", err)
	}
	orderNumber := fmt.Sprintf("KSK_%s_%03d", currentDate, orderCount+1)

	total := 0.0
	for _, item := range order.Items {
		total += float64(item.Quantity) * item.Price
	}

	now := time.Now().UTC()
	newOrder := lifecycle.KioskOrder{
		ID:           uuid.NewString(),
		OrderNumber:  orderNumber,
		OrderType:    orderType,
		Status:       lifecycle.KioskPendingPayment,
		CustomerName: order.CustomerName,
		TotalAmount:  total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO kiosk_orders (
			id, order_number, order_type, status, customer_name,
			total_amount, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		newOrder.ID, newOrder.OrderNumber, newOrder.OrderType, newOrder.Status,
		newOrder.CustomerName, newOrder.TotalAmount, newOrder.CreatedAt, newOrder.UpdatedAt,
	)
	if err != nil {
		return lifecycle.KioskOrder{}, fmt.Errorf("failed to insert kiosk order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO kiosk_order_items (order_id, name, size_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, newOrder.ID, item.Name, item.Size, item.Quantity, item.Price, float64(item.Quantity)*item.Price)
		if err != nil {
			return lifecycle.KioskOrder{}, fmt.Errorf("failed to insert kiosk item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note, changed_at)
		VALUES ($1, NULL, $2, NULL, $3, $4)
	`, newOrder.ID, newOrder.Status, "Kiosk order placed", now)
	if err != nil {
		return lifecycle.KioskOrder{}, fmt.Errorf("failed to insert order status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return lifecycle.KioskOrder{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newOrder, nil
}

const kioskColumns = `
	id, order_number, order_type, status, customer_name, total_amount,
	COALESCE(cancellation_reason, ''), COALESCE(cancellation_notes, ''),
	created_at, updated_at, completed_at
`

func scanKioskOrder(row pgx.Row) (lifecycle.KioskOrder, error) {
	var order lifecycle.KioskOrder
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.OrderType, &order.Status,
		&order.CustomerName, &order.TotalAmount,
		&order.CancellationReason, &order.CancellationNotes,
		&order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
	)
	return order, err
}

func (kr *KioskRepo) GetByNumber(ctx context.Context, orderNumber string) (lifecycle.KioskOrder, error) {
	if err := kr.db.IsAlive(); err != nil {
		return lifecycle.KioskOrder{}, core.ErrDBConn
	}

	q := `SELECT ` + kioskColumns + ` FROM kiosk_orders WHERE order_number = $1`
	order, err := scanKioskOrder(kr.db.GetConn().QueryRow(ctx, q, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.KioskOrder{}, core.ErrOrderNotFound
		}
		return lifecycle.KioskOrder{}, err
	}
	return order, nil
}

// UpdateStatus writes the already-validated order state and appends the
// history row in one transaction, so the audit trail can never reflect a
// status that was not committed.
func (kr *KioskRepo) UpdateStatus(ctx context.Context, order lifecycle.KioskOrder, entry *lifecycle.HistoryEntry) error {
	if err := kr.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	tx, err := kr.db.GetConn().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE kiosk_orders
		SET status = $2, updated_at = $3,
		    cancellation_reason = NULLIF($4, ''), cancellation_notes = NULLIF($5, '')
		WHERE id = $1
	`, order.ID, order.Status, order.UpdatedAt, order.CancellationReason, order.CancellationNotes)
	if err != nil {
		return fmt.Errorf("failed to update kiosk order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.OrderID, entry.OldStatus, entry.NewStatus, entry.ChangedBy, entry.Note, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order status history: %w", err)
	}

	return tx.Commit(ctx)
}

func (kr *KioskRepo) MarkComplete(ctx context.Context, order lifecycle.KioskOrder) error {
	if err := kr.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	tag, err := kr.db.GetConn().Exec(ctx, `
		UPDATE kiosk_orders SET completed_at = $2, updated_at = $3 WHERE id = $1
	`, order.ID, order.CompletedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to mark kiosk order complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrOrderNotFound
	}
	return nil
}

// ListOpen returns the cashier station queue: unpaid orders first, then
// paid orders awaiting fulfilment.
func (kr *KioskRepo) ListOpen(ctx context.Context) ([]lifecycle.KioskOrder, error) {
	if err := kr.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
	SELECT ` + kioskColumns + `
	FROM kiosk_orders
	WHERE status = 'pending_payment'
	   OR (status = 'payment_received' AND completed_at IS NULL)
	ORDER BY status DESC, created_at ASC
	`
	rows, err := kr.db.GetConn().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []lifecycle.KioskOrder
	for rows.Next() {
		order, err := scanKioskOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
