package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

// FinanceStore manages savings goals and expenses.
type FinanceStore struct {
	db *sql.DB
}

func NewFinanceStore(db *sql.DB) *FinanceStore {
	return &FinanceStore{db: db}
}

func scanGoal(scanner interface{ Scan(...any) error }) (*model.Goal, error) {
	var g model.Goal
	if err := scanner.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	if err := scanner.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.Date, &e.Category, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

const (
	goalCols    = `id, user_id, name, target_amount, current_amount, created_at`
	expenseCols = `id, user_id, description, amount, date, category, created_at`
)

func (s *FinanceStore) CreateGoal(ctx context.Context, userID, name string, target, current float64) (*model.Goal, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_amount, current_amount) VALUES (?, ?, ?, ?, ?)`,
		id, userID, name, target, current,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.getGoal(ctx, id)
}

func (s *FinanceStore) getGoal(ctx context.Context, id string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalCols+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals owned by any of owners, oldest first.
func (s *FinanceStore) ListGoals(ctx context.Context, owners []string) ([]model.Goal, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalCols+` FROM goals WHERE `+where+` ORDER BY created_at, rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// AdjustGoal adds delta to the saved amount of a goal owned by userID.
// Withdrawals never take the amount below zero.
func (s *FinanceStore) AdjustGoal(ctx context.Context, id, userID string, delta float64) (*model.Goal, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE goals SET current_amount = MAX(0, current_amount + ?) WHERE id = ? AND user_id = ?`,
		delta, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("adjust goal: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return s.getGoal(ctx, id)
}

func (s *FinanceStore) DeleteGoal(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	return affected(result)
}

func (s *FinanceStore) CreateExpense(ctx context.Context, userID, description string, amount float64, date, category string) (*model.Expense, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, description, amount, date, category) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, description, amount, date, category,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns expenses owned by any of owners, most recent date first.
func (s *FinanceStore) ListExpenses(ctx context.Context, owners []string) ([]model.Expense, error) {
	where, args := ownerFilter("user_id", owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE `+where+` ORDER BY date DESC, created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *FinanceStore) DeleteExpense(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return affected(result)
}
