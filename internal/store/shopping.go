package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var price sql.NullFloat64
	var purchased int
	if err := scanner.Scan(&item.ID, &item.UserID, &item.Name, &price, &purchased, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.EstimatedPrice = floatPtr(price)
	item.Purchased = purchased != 0
	return &item, nil
}

const shoppingCols = `id, user_id, name, estimated_price, purchased, created_at`

func (s *ShoppingStore) Create(ctx context.Context, userID, name string, price *float64) (*model.ShoppingItem, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_items (id, user_id, name, estimated_price) VALUES (?, ?, ?, ?)`,
		id, userID, name, nullFloat(price),
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	return s.get(ctx, id)
}

func (s *ShoppingStore) get(ctx context.Context, id string) (*model.ShoppingItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shoppingCols+` FROM shopping_items WHERE id = ?`, id)
	item, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return item, nil
}

// List returns items owned by any of owners, newest first.
func (s *ShoppingStore) List(ctx context.Context, owners []string) ([]model.ShoppingItem, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shoppingCols+` FROM shopping_items WHERE `+where+` ORDER BY created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) Update(ctx context.Context, id, userID, name string, price *float64) (*model.ShoppingItem, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE shopping_items SET name = ?, estimated_price = ? WHERE id = ? AND user_id = ?`,
		name, nullFloat(price), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping item: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return s.get(ctx, id)
}

func (s *ShoppingStore) TogglePurchased(ctx context.Context, id, userID string) (*model.ShoppingItem, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE shopping_items SET purchased = 1 - purchased WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle shopping item: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return s.get(ctx, id)
}

func (s *ShoppingStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete shopping item: %w", err)
	}
	return affected(result)
}

// ClearPurchased removes the caller's purchased items. Items the partner owns
// are left alone.
func (s *ShoppingStore) ClearPurchased(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shopping_items WHERE user_id = ? AND purchased = 1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear purchased: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// Summary totals the list visible to owners. TotalEstimated covers pending
// items only.
func (s *ShoppingStore) Summary(ctx context.Context, owners []string) (*model.ShoppingSummary, error) {
	where, args := ownerFilter("user_id", owners)
	var sum model.ShoppingSummary
	err := s.db.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN purchased = 0 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN purchased = 1 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN purchased = 0 THEN estimated_price ELSE 0 END), 0)
		 FROM shopping_items WHERE `+where,
		args...,
	).Scan(&sum.PendingCount, &sum.PurchasedCount, &sum.TotalEstimated)
	if err != nil {
		return nil, fmt.Errorf("shopping summary: %w", err)
	}
	return &sum, nil
}
