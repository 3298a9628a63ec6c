package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/lifecycle"
	"tavolo/internal/reports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const onlineColumns = `
	id, order_number, order_type, status,
	customer_name, COALESCE(phone, ''), COALESCE(email, ''),
	COALESCE(delivery_address, ''), user_id,
	total_amount, delivery_fee,
	COALESCE(cancellation_reason, ''), COALESCE(cancellation_notes, ''),
	created_at, updated_at
`

func scanOnlineOrder(row pgx.Row) (lifecycle.Order, error) {
	var order lifecycle.Order
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.OrderType, &order.Status,
		&order.CustomerName, &order.Phone, &order.Email,
		&order.DeliveryAddress, &order.UserID,
		&order.TotalAmount, &order.DeliveryFee,
		&order.CancellationReason, &order.CancellationNotes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	return order, err
}

func (or *OrderRepo) GetOnlineByNumber(ctx context.Context, orderNumber string) (lifecycle.Order, error) {
	q := `SELECT ` + onlineColumns + ` FROM orders WHERE order_number = $1`
	order, err := scanOnlineOrder(or.pool.QueryRow(ctx, q, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Order{}, core.ErrOrderNotFound
		}
		return lifecycle.Order{}, err
	}
	return order, nil
}

// UpdateOnlineStatus writes the already-validated order state and appends
// the history row in one transaction, so the audit trail can never
// reflect a status that was not committed.
func (or *OrderRepo) UpdateOnlineStatus(ctx context.Context, order lifecycle.Order, entry lifecycle.HistoryEntry) error {
	tx, err := or.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3,
		    cancellation_reason = NULLIF($4, ''), cancellation_notes = NULLIF($5, '')
		WHERE id = $1
	`, order.ID, order.Status, order.UpdatedAt, order.CancellationReason, order.CancellationNotes)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
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

// List returns merged online and kiosk orders, newest first, without line
// items. Source and time bounds are applied in SQL; the status filter is
// applied after normalization so "completed" matches fulfilled kiosk
// orders too.
func (or *OrderRepo) List(ctx context.Context, filter core.OrderFilter) ([]reports.Order, error) {
	merged, err := or.fetchMerged(ctx, filter.Source, filter.From, filter.To, false)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		return merged, nil
	}

	filtered := merged[:0]
	for _, o := range merged {
		if o.Status == filter.Status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// FetchWindow returns merged orders created in [from, to) with line items
// attached, for report aggregation.
func (or *OrderRepo) FetchWindow(ctx context.Context, from, to time.Time) ([]reports.Order, error) {
	return or.fetchMerged(ctx, "", from, to, true)
}

func (or *OrderRepo) fetchMerged(ctx context.Context, source string, from, to time.Time, withItems bool) ([]reports.Order, error) {
	if source != "" && source != string(reports.SourceOnline) && source != string(reports.SourceKiosk) {
		return nil, core.ErrUnknownSource
	}

	var merged []reports.Order

	if source == "" || source == string(reports.SourceOnline) {
		online, err := or.fetchOnline(ctx, from, to, withItems)
		if err != nil {
			return nil, err
		}
		merged = append(merged, online...)
	}
	if source == "" || source == string(reports.SourceKiosk) {
		kiosk, err := or.fetchKiosk(ctx, from, to, withItems)
		if err != nil {
			return nil, err
		}
		merged = append(merged, kiosk...)
	}

	reports.SortByCreatedDesc(merged)
	return merged, nil
}

func timeWindowClause(from, to time.Time) (string, []any) {
	clause := ""
	var args []any
	if !from.IsZero() {
		args = append(args, from)
		clause += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		clause += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	return clause, args
}

func (or *OrderRepo) fetchOnline(ctx context.Context, from, to time.Time, withItems bool) ([]reports.Order, error) {
	clause, args := timeWindowClause(from, to)
	q := `SELECT ` + onlineColumns + ` FROM orders WHERE TRUE` + clause

	rows, err := or.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []reports.Order
		ids    []string
	)
	for rows.Next() {
		order, err := scanOnlineOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, reports.FromOnline(order, nil))
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		if err := or.attachItems(ctx, "order_items", orders, ids); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (or *OrderRepo) fetchKiosk(ctx context.Context, from, to time.Time, withItems bool) ([]reports.Order, error) {
	clause, args := timeWindowClause(from, to)
	q := `
	SELECT id, order_number, order_type, status, customer_name, total_amount,
	       COALESCE(cancellation_reason, ''), COALESCE(cancellation_notes, ''),
	       created_at, updated_at, completed_at
	FROM kiosk_orders WHERE TRUE` + clause

	rows, err := or.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []reports.Order
		ids    []string
	)
	for rows.Next() {
		var order lifecycle.KioskOrder
		if err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.OrderType, &order.Status,
			&order.CustomerName, &order.TotalAmount,
			&order.CancellationReason, &order.CancellationNotes,
			&order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, reports.FromKiosk(order, nil))
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withItems {
		if err := or.attachItems(ctx, "kiosk_order_items", orders, ids); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// attachItems fetches line items for all listed orders in one query and
// distributes them onto the matching snapshots.
func (or *OrderRepo) attachItems(ctx context.Context, table string, orders []reports.Order, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q := `
	SELECT order_id, name, COALESCE(size_name, ''), quantity, unit_price, line_total
	FROM ` + table + `
	WHERE order_id = ANY($1)
	`
	rows, err := or.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string][]reports.LineItem, len(ids))
	for rows.Next() {
		var (
			orderID string
			item    reports.LineItem
		)
		if err := rows.Scan(&orderID, &item.Name, &item.Size, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return err
		}
		byID[orderID] = append(byID[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = byID[orders[i].ID]
	}
	return nil
}
