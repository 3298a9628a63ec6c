package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolo/internal/ban"
	"tavolo/internal/lifecycle"
	"tavolo/internal/storefront/app/core"
	"tavolo/internal/storefront/domain/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepo struct {
	db            core.IDB
	maxConcurrent int
	deliveryFee   float64
	loc           *time.Location
}

func NewOrderRepo(db core.IDB, maxConcurrent int, deliveryFee float64, loc *time.Location) *OrderRepo {
	return &OrderRepo{
		db:            db,
		maxConcurrent: maxConcurrent,
		deliveryFee:   deliveryFee,
		loc:           loc,
	}
}

// Create inserts the order, its items and the initial history row in one
// transaction. The total is recomputed server-side from the line items
// plus the delivery fee; a client-supplied total is never trusted.
func (or *OrderRepo) Create(ctx context.Context, order dto.OrderRequest) (lifecycle.Order, error) {
	if err := or.db.IsAlive(); err != nil {
		return lifecycle.Order{}, core.ErrDBConn
	}

	// Order numbers restart daily on the business calendar, not UTC.
	currentDate := time.Now().In(or.loc).Format("20060102")

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var pendingToday int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(1) FROM orders WHERE order_number LIKE 'ORD_' || $1 || '%' AND status = 'pending'`,
		currentDate,
	).Scan(&pendingToday)
	if err != nil {
		return lifecycle.Order{}, err
	}
	if pendingToday >= or.maxConcurrent {
		return lifecycle.Order{}, core.ErrTooManyOrders
	}

	var orderCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE order_number LIKE 'ORD_' || $1 || '%'`,
		currentDate,
	).Scan(&orderCount)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to count today's orders: %w", err)
	}
	orderNumber := fmt.Sprintf("ORD_%s_%03d", currentDate, orderCount+1)

	total := 0.0
	for _, item := range order.Items {
		total += float64(item.Quantity) * item.Price
	}
	deliveryFee := 0.0
	if order.OrderType == string(lifecycle.TypeDelivery) {
		deliveryFee = or.deliveryFee
	}
	total += deliveryFee

	now := time.Now().UTC()
	newOrder := lifecycle.Order{
		ID:              uuid.NewString(),
		OrderNumber:     orderNumber,
		OrderType:       lifecycle.OrderType(order.OrderType),
		Status:          lifecycle.StatusPending,
		CustomerName:    order.CustomerName,
		Phone:           order.Phone,
		Email:           order.Email,
		DeliveryAddress: order.DeliveryAddress,
		UserID:          order.UserID,
		TotalAmount:     total,
		DeliveryFee:     deliveryFee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, order_type, status,
			customer_name, phone, email, delivery_address, user_id,
			total_amount, delivery_fee, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		newOrder.ID, newOrder.OrderNumber, newOrder.OrderType, newOrder.Status,
		newOrder.CustomerName, newOrder.Phone, newOrder.Email, newOrder.DeliveryAddress, newOrder.UserID,
		newOrder.TotalAmount, newOrder.DeliveryFee, newOrder.CreatedAt, newOrder.UpdatedAt,
	)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, size_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, newOrder.ID, item.Name, item.Size, item.Quantity, item.Price, float64(item.Quantity)*item.Price)
		if err != nil {
			return lifecycle.Order{}, fmt.Errorf("failed to insert item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, note, changed_at)
		VALUES ($1, NULL, $2, NULL, $3, $4)
	`, newOrder.ID, newOrder.Status, "Order placed", now)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to insert order status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newOrder, nil
}

func (or *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (lifecycle.Order, error) {
	if err := or.db.IsAlive(); err != nil {
		return lifecycle.Order{}, core.ErrDBConn
	}

	q := `
	SELECT
		id, order_number, order_type, status,
		customer_name, phone, email, delivery_address, user_id,
		total_amount, delivery_fee,
		COALESCE(cancellation_reason, ''), COALESCE(cancellation_notes, ''),
		created_at, updated_at
	FROM orders
	WHERE order_number = $1
	`
	var order lifecycle.Order
	if err := or.db.GetConn().QueryRow(ctx, q, orderNumber).Scan(
		&order.ID, &order.OrderNumber, &order.OrderType, &order.Status,
		&order.CustomerName, &order.Phone, &order.Email, &order.DeliveryAddress, &order.UserID,
		&order.TotalAmount, &order.DeliveryFee,
		&order.CancellationReason, &order.CancellationNotes,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lifecycle.Order{}, core.ErrOrderNotFound
		}
		return lifecycle.Order{}, err
	}

	return order, nil
}

func (or *OrderRepo) GetHistory(ctx context.Context, orderNumber string) ([]lifecycle.HistoryEntry, error) {
	if err := or.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
	SELECT h.order_id, h.old_status, h.new_status, h.changed_by, h.note, h.changed_at
	FROM order_status_history h
	JOIN orders o ON h.order_id = o.id
	WHERE o.order_number = $1
	ORDER BY h.changed_at ASC
	`
	rows, err := or.db.GetConn().Query(ctx, q, orderNumber)
	if err != nil {
		return nil, err
	}

	history, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, core.ErrOrderNotFound
	}
	return history, nil
}

// scanHistory drains the result set. A broken connection surfaces through
// rows.Err after Next returns false; that must come back as the I/O error,
// never as an empty (or truncated) trail.
func scanHistory(rows pgx.Rows) ([]lifecycle.HistoryEntry, error) {
	defer rows.Close()

	var history []lifecycle.HistoryEntry
	for rows.Next() {
		var entry lifecycle.HistoryEntry
		if err := rows.Scan(
			&entry.OrderID, &entry.OldStatus, &entry.NewStatus,
			&entry.ChangedBy, &entry.Note, &entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// BanHistory returns every ban row for a customer, newest first. The gate
// itself is evaluated in the service so expiry is checked live.
func (or *OrderRepo) BanHistory(ctx context.Context, customerID string) ([]ban.Record, error) {
	if err := or.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
	SELECT id, customer_id, ban_reason, COALESCE(custom_reason, ''),
	       banned_at, banned_by, banned_until, is_active, COALESCE(notes, '')
	FROM customer_bans
	WHERE customer_id = $1
	ORDER BY banned_at DESC
	`
	rows, err := or.db.GetConn().Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ban.Record
	for rows.Next() {
		var rec ban.Record
		if err := rows.Scan(
			&rec.ID, &rec.CustomerID, &rec.Reason, &rec.CustomReason,
			&rec.BannedAt, &rec.BannedBy, &rec.BannedUntil, &rec.IsActive, &rec.Notes,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
