package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type DashboardStore struct {
	db *sql.DB
}

func NewDashboardStore(db *sql.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

// Counts aggregates every household table visible to owners.
func (s *DashboardStore) Counts(ctx context.Context, owners []string) (*model.Dashboard, error) {
	where, ownerArgs := ownerFilter("user_id", owners)

	var d model.Dashboard
	queries := []struct {
		query string
		dest  any
	}{
		{`SELECT COUNT(*) FROM todos WHERE completed = 0 AND ` + where, &d.OpenTasks},
		{`SELECT COUNT(*) FROM shopping_items WHERE purchased = 0 AND ` + where, &d.PendingShopping},
		{`SELECT COUNT(*) FROM movies WHERE watched = 0 AND ` + where, &d.UnwatchedMovies},
		{`SELECT COUNT(*) FROM events WHERE ` + where, &d.Events},
		{`SELECT COUNT(*) FROM wishes WHERE purchased = 0 AND ` + where, &d.OpenWishes},
		{`SELECT COUNT(*) FROM memories WHERE ` + where, &d.Memories},
		{`SELECT COALESCE(SUM(current_amount), 0) FROM goals WHERE ` + where, &d.TotalSaved},
		{`SELECT COALESCE(SUM(target_amount), 0) FROM goals WHERE ` + where, &d.TotalTarget},
	}

	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, ownerArgs...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}
	return &d, nil
}
