package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type WishStore struct {
	db *sql.DB
}

func NewWishStore(db *sql.DB) *WishStore {
	return &WishStore{db: db}
}

func scanWish(scanner interface{ Scan(...any) error }) (*model.Wish, error) {
	var w model.Wish
	var price sql.NullFloat64
	var comment, imageURL, url sql.NullString
	var reserved, purchased int

	err := scanner.Scan(
		&w.ID, &w.UserID, &w.Title, &price, &w.Priority, &comment,
		&imageURL, &url, &reserved, &purchased, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Price = floatPtr(price)
	w.Comment = stringPtr(comment)
	w.ImageURL = stringPtr(imageURL)
	w.URL = stringPtr(url)
	w.Reserved = reserved != 0
	w.Purchased = purchased != 0
	return &w, nil
}

const wishCols = `id, user_id, title, price, priority, comment, image_url, url, reserved, purchased, created_at`

// WishInput carries the user-editable fields of a wish.
type WishInput struct {
	Title    string
	Price    *float64
	Priority int
	Comment  *string
	ImageURL *string
	URL      *string
}

func (s *WishStore) Create(ctx context.Context, userID string, in WishInput) (*model.Wish, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wishes (id, user_id, title, price, priority, comment, image_url, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.Title, nullFloat(in.Price), in.Priority,
		nullString(in.Comment), nullString(in.ImageURL), nullString(in.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("insert wish: %w", err)
	}
	return s.get(ctx, id)
}

func (s *WishStore) get(ctx context.Context, id string) (*model.Wish, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+wishCols+` FROM wishes WHERE id = ?`, id)
	w, err := scanWish(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wish: %w", err)
	}
	return w, nil
}

// List returns wishes owned by any of owners, highest priority first and
// newest first within a priority.
func (s *WishStore) List(ctx context.Context, owners []string) ([]model.Wish, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wishCols+` FROM wishes WHERE `+where+` ORDER BY priority DESC, created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishes: %w", err)
	}
	defer rows.Close()

	var wishes []model.Wish
	for rows.Next() {
		w, err := scanWish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wish: %w", err)
		}
		wishes = append(wishes, *w)
	}
	return wishes, rows.Err()
}

func (s *WishStore) Update(ctx context.Context, id, userID string, in WishInput) (*model.Wish, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE wishes SET title = ?, price = ?, priority = ?, comment = ?, image_url = ?, url = ?
		 WHERE id = ? AND user_id = ?`,
		in.Title, nullFloat(in.Price), in.Priority, nullString(in.Comment),
		nullString(in.ImageURL), nullString(in.URL), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update wish: %w", err)
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

func (s *WishStore) toggle(ctx context.Context, column, id, userID string) (*model.Wish, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE wishes SET `+column+` = 1 - `+column+` WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle wish %s: %w", column, err)
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

func (s *WishStore) ToggleReserved(ctx context.Context, id, userID string) (*model.Wish, error) {
	return s.toggle(ctx, "reserved", id, userID)
}

func (s *WishStore) TogglePurchased(ctx context.Context, id, userID string) (*model.Wish, error) {
	return s.toggle(ctx, "purchased", id, userID)
}

func (s *WishStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM wishes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete wish: %w", err)
	}
	return affected(result)
}
