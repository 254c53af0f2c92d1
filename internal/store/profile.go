package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var fullName, avatarURL sql.NullString
	err := scanner.Scan(&p.ID, &fullName, &avatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.FullName = stringPtr(fullName)
	p.AvatarURL = stringPtr(avatarURL)
	return &p, nil
}

const profileCols = `id, full_name, avatar_url, created_at, updated_at`

func (s *ProfileStore) Get(ctx context.Context, userID string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) UpdateFullName(ctx context.Context, userID string, fullName *string) (*model.Profile, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET full_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullString(fullName), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update full name: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *ProfileStore) UpdateAvatarURL(ctx context.Context, userID string, avatarURL *string) (*model.Profile, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullString(avatarURL), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	return s.Get(ctx, userID)
}
