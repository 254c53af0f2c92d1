package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type MemoryStore struct {
	db *sql.DB
}

func NewMemoryStore(db *sql.DB) *MemoryStore {
	return &MemoryStore{db: db}
}

func scanMemory(scanner interface{ Scan(...any) error }) (*model.Memory, error) {
	var m model.Memory
	var imageURL sql.NullString
	if err := scanner.Scan(&m.ID, &m.UserID, &m.Content, &imageURL, &m.HappenedAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ImageURL = stringPtr(imageURL)
	return &m, nil
}

const memoryCols = `id, user_id, content, image_url, happened_at, created_at`

func (s *MemoryStore) Create(ctx context.Context, userID, content string, imageURL *string, happenedAt string) (*model.Memory, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, user_id, content, image_url, happened_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, content, nullString(imageURL), happenedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return s.get(ctx, id)
}

func (s *MemoryStore) get(ctx context.Context, id string) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memoryCols+` FROM memories WHERE id = ?`, id)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// List returns memories owned by any of owners, most recent first.
func (s *MemoryStore) List(ctx context.Context, owners []string) ([]model.Memory, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryCols+` FROM memories WHERE `+where+` ORDER BY happened_at DESC, created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		memories = append(memories, *m)
	}
	return memories, rows.Err()
}

// Random picks one visible memory, or nil when there are none.
func (s *MemoryStore) Random(ctx context.Context, owners []string) (*model.Memory, error) {
	where, args := ownerFilter("user_id", owners)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memoryCols+` FROM memories WHERE `+where+` ORDER BY RANDOM() LIMIT 1`,
		args...,
	)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("random memory: %w", err)
	}
	return m, nil
}

func (s *MemoryStore) Update(ctx context.Context, id, userID, content string, imageURL *string, happenedAt string) (*model.Memory, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE memories SET content = ?, image_url = ?, happened_at = ? WHERE id = ? AND user_id = ?`,
		content, nullString(imageURL), happenedAt, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
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

func (s *MemoryStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete memory: %w", err)
	}
	return affected(result)
}
