package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dukerupert/pairhouse/internal/model"
)

var (
	// ErrMemberActive is returned when either user already holds a pending
	// or accepted partnership.
	ErrMemberActive = errors.New("user already has an active partnership")
	// ErrStatusChanged is returned when a conditional write finds the row
	// missing or no longer in the expected status.
	ErrStatusChanged = errors.New("partnership status changed")
)

type PartnershipStore struct {
	db *sql.DB
}

func NewPartnershipStore(db *sql.DB) *PartnershipStore {
	return &PartnershipStore{db: db}
}

func scanPartnership(scanner interface{ Scan(...any) error }) (*model.Partnership, error) {
	var p model.Partnership
	var status string
	var respondedAt sql.NullTime
	err := scanner.Scan(&p.ID, &p.UserA, &p.UserB, &status, &p.InvitedBy, &p.CreatedAt, &respondedAt)
	if err != nil {
		return nil, err
	}
	p.Status = model.PartnershipStatus(status)
	if respondedAt.Valid {
		p.RespondedAt = &respondedAt.Time
	}
	return &p, nil
}

const partnershipCols = `id, user_a, user_b, status, invited_by, created_at, responded_at`

func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// Create inserts a pending partnership and claims both users in
// partnership_members within one transaction. userA must sort before userB.
func (s *PartnershipStore) Create(ctx context.Context, userA, userB, invitedBy string) (*model.Partnership, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM partnership_members WHERE user_id IN (?, ?)`,
		userA, userB,
	).Scan(&taken); err != nil {
		return nil, fmt.Errorf("check members: %w", err)
	}
	if taken > 0 {
		return nil, ErrMemberActive
	}

	id := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO partnerships (id, user_a, user_b, status, invited_by) VALUES (?, ?, ?, ?, ?)`,
		id, userA, userB, string(model.PartnershipPending), invitedBy,
	); err != nil {
		return nil, fmt.Errorf("insert partnership: %w", err)
	}
	for _, userID := range []string{userA, userB} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO partnership_members (user_id, partnership_id) VALUES (?, ?)`,
			userID, id,
		); err != nil {
			if isConstraintViolation(err) {
				return nil, ErrMemberActive
			}
			return nil, fmt.Errorf("claim member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit partnership: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *PartnershipStore) GetByID(ctx context.Context, id string) (*model.Partnership, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+partnershipCols+` FROM partnerships WHERE id = ?`, id)
	p, err := scanPartnership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get partnership: %w", err)
	}
	return p, nil
}

// GetActiveForUser returns the user's pending or accepted partnership, or nil.
func (s *PartnershipStore) GetActiveForUser(ctx context.Context, userID string) (*model.Partnership, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.user_a, p.user_b, p.status, p.invited_by, p.created_at, p.responded_at
		 FROM partnerships p
		 JOIN partnership_members pm ON pm.partnership_id = p.id
		 WHERE pm.user_id = ?`,
		userID,
	)
	p, err := scanPartnership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active partnership: %w", err)
	}
	return p, nil
}

// ListForUser returns every partnership row the user appears in, newest first.
func (s *PartnershipStore) ListForUser(ctx context.Context, userID string) ([]model.Partnership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+partnershipCols+` FROM partnerships
		 WHERE user_a = ? OR user_b = ?
		 ORDER BY created_at DESC, rowid DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}
	defer rows.Close()

	var out []model.Partnership
	for rows.Next() {
		p, err := scanPartnership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partnership: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Respond moves a pending partnership to accepted or rejected. The update is
// conditional on the row still being pending; a rejection also releases both
// members.
func (s *PartnershipStore) Respond(ctx context.Context, id string, status model.PartnershipStatus) (*model.Partnership, error) {
	if status != model.PartnershipAccepted && status != model.PartnershipRejected {
		return nil, fmt.Errorf("respond: invalid status %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE partnerships SET status = ?, responded_at = ? WHERE id = ? AND status = ?`,
		string(status), time.Now().UTC(), id, string(model.PartnershipPending),
	)
	if err != nil {
		return nil, fmt.Errorf("update partnership status: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	if status == model.PartnershipRejected {
		if _, err := tx.ExecContext(ctx, `DELETE FROM partnership_members WHERE partnership_id = ?`, id); err != nil {
			return nil, fmt.Errorf("release members: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit respond: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a partnership that is still in the expected status. Member
// claims are released by the foreign key cascade.
func (s *PartnershipStore) Delete(ctx context.Context, id string, expected model.PartnershipStatus) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM partnerships WHERE id = ? AND status = ?`,
		id, string(expected),
	)
	if err != nil {
		return fmt.Errorf("delete partnership: %w", err)
	}
	ok, err := affected(result)
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if !ok {
		return ErrStatusChanged
	}
	return nil
}
