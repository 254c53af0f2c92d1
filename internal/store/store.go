package store

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()
}

// ownerFilter renders an IN clause over the given owner ids. An empty set
// matches nothing.
func ownerFilter(column string, owners []string) (string, []any) {
	if len(owners) == 0 {
		return "0", nil
	}
	args := make([]any, len(owners))
	for i, o := range owners {
		args[i] = o
	}
	return column + " IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(owners)), ", ") + ")", args
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// affected reports whether an update or delete touched at least one row.
func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
