package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var completed int
	if err := scanner.Scan(&t.ID, &t.UserID, &t.Text, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	return &t, nil
}

const taskCols = `id, user_id, text, completed, created_at`

func (s *TaskStore) Create(ctx context.Context, userID, text string) (*model.Task, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, text) VALUES (?, ?, ?)`,
		id, userID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.get(ctx, id)
}

func (s *TaskStore) get(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskCols+` FROM todos WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// GetByID returns the task if its owner is in owners.
func (s *TaskStore) GetByID(ctx context.Context, id string, owners []string) (*model.Task, error) {
	where, args := ownerFilter("user_id", owners)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM todos WHERE id = ? AND `+where,
		append([]any{id}, args...)...,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns the tasks owned by any of owners, newest first.
func (s *TaskStore) List(ctx context.Context, owners []string) ([]model.Task, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskCols+` FROM todos WHERE `+where+` ORDER BY created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateText changes the text of a task owned by userID. It returns nil if no
// such task exists.
func (s *TaskStore) UpdateText(ctx context.Context, id, userID, text string) (*model.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE todos SET text = ? WHERE id = ? AND user_id = ?`,
		text, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
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

func (s *TaskStore) ToggleCompleted(ctx context.Context, id, userID string) (*model.Task, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE todos SET completed = 1 - completed WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
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

// Delete removes a task owned by userID and reports whether it existed.
func (s *TaskStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return affected(result)
}
