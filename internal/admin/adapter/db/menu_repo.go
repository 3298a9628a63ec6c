package db

import (
	"context"
	"errors"
	"fmt"

	"tavolo/internal/admin/app/core"
	"tavolo/internal/admin/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepo struct {
	pool *pgxpool.Pool
}

func NewMenuRepo(pool *pgxpool.Pool) *MenuRepo {
	return &MenuRepo{pool: pool}
}

func (mr *MenuRepo) ListSizes(ctx context.Context) ([]models.SizeOption, error) {
	q := `
	SELECT id, name, price_multiplier, is_active, sort_order
	FROM size_options
	ORDER BY sort_order ASC, name ASC
	`
	rows, err := mr.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []models.SizeOption
	for rows.Next() {
		var s models.SizeOption
		if err := rows.Scan(&s.ID, &s.Name, &s.PriceMultiplier, &s.IsActive, &s.SortOrder); err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	return sizes, rows.Err()
}

func (mr *MenuRepo) CreateSize(ctx context.Context, s models.SizeOption) (models.SizeOption, error) {
	_, err := mr.pool.Exec(ctx, `
		INSERT INTO size_options (id, name, price_multiplier, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Name, s.PriceMultiplier, s.IsActive, s.SortOrder)
	if err != nil {
		return models.SizeOption{}, fmt.Errorf("failed to insert size option: %w", err)
	}
	return s, nil
}

func (mr *MenuRepo) GetSize(ctx context.Context, id string) (models.SizeOption, error) {
	var s models.SizeOption
	err := mr.pool.QueryRow(ctx, `
		SELECT id, name, price_multiplier, is_active, sort_order
		FROM size_options WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.PriceMultiplier, &s.IsActive, &s.SortOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SizeOption{}, core.ErrSizeNotFound
		}
		return models.SizeOption{}, err
	}
	return s, nil
}

func (mr *MenuRepo) UpdateSize(ctx context.Context, s models.SizeOption) error {
	tag, err := mr.pool.Exec(ctx, `
		UPDATE size_options
		SET name = $2, price_multiplier = $3, is_active = $4, sort_order = $5
		WHERE id = $1
	`, s.ID, s.Name, s.PriceMultiplier, s.IsActive, s.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to update size option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSizeNotFound
	}
	return nil
}

func (mr *MenuRepo) LinkItemSize(ctx context.Context, link models.ItemSize) (models.ItemSize, error) {
	_, err := mr.pool.Exec(ctx, `
		INSERT INTO food_item_sizes (id, food_item, size_option_id, is_available, custom_price_multiplier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (food_item, size_option_id)
		DO UPDATE SET is_available = $4, custom_price_multiplier = $5
	`, link.ID, link.FoodItem, link.SizeOptionID, link.IsAvailable, link.CustomPriceMultiplier)
	if err != nil {
		return models.ItemSize{}, fmt.Errorf("failed to link item size: %w", err)
	}
	return link, nil
}

// ListItemSizes returns an item's size links in the size options' display
// order.
func (mr *MenuRepo) ListItemSizes(ctx context.Context, foodItem string) ([]models.ItemSize, error) {
	q := `
	SELECT l.id, l.food_item, l.size_option_id, s.name, l.is_available, l.custom_price_multiplier
	FROM food_item_sizes l
	JOIN size_options s ON l.size_option_id = s.id
	WHERE l.food_item = $1
	ORDER BY s.sort_order ASC, s.name ASC
	`
	rows, err := mr.pool.Query(ctx, q, foodItem)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ItemSize
	for rows.Next() {
		var l models.ItemSize
		if err := rows.Scan(&l.ID, &l.FoodItem, &l.SizeOptionID, &l.SizeName, &l.IsAvailable, &l.CustomPriceMultiplier); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
