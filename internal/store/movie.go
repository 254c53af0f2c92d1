package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/pairhouse/internal/model"
)

type MovieStore struct {
	db *sql.DB
}

func NewMovieStore(db *sql.DB) *MovieStore {
	return &MovieStore{db: db}
}

func scanMovie(scanner interface{ Scan(...any) error }) (*model.Movie, error) {
	var m model.Movie
	var posterURL, kinopoiskID, comment, description, authorName, authorAvatar sql.NullString
	var rating, year sql.NullInt64
	var watched int
	var genres string

	err := scanner.Scan(
		&m.ID, &m.UserID, &m.Title, &posterURL, &kinopoiskID, &comment,
		&watched, &rating, &genres, &year, &description, &m.CreatedAt,
		&authorName, &authorAvatar,
	)
	if err != nil {
		return nil, err
	}

	m.PosterURL = stringPtr(posterURL)
	m.KinopoiskID = stringPtr(kinopoiskID)
	m.Comment = stringPtr(comment)
	m.Description = stringPtr(description)
	m.Watched = watched != 0
	m.Rating = intPtr(rating)
	m.Year = intPtr(year)
	m.Genres = splitGenres(genres)
	m.AddedBy = model.Author{FullName: stringPtr(authorName), AvatarURL: stringPtr(authorAvatar)}
	return &m, nil
}

// movieSelect joins the owner's profile for the added-by display.
const movieSelect = `SELECT m.id, m.user_id, m.title, m.poster_url, m.kinopoisk_id, m.comment, m.watched,
	m.rating, m.genres, m.year, m.description, m.created_at, p.full_name, p.avatar_url
	FROM movies m LEFT JOIN profiles p ON p.id = m.user_id`

// Genres are stored as a comma-separated list.
func joinGenres(genres []string) string {
	clean := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(strings.ReplaceAll(g, ",", " "))
		if g != "" {
			clean = append(clean, g)
		}
	}
	return strings.Join(clean, ",")
}

func splitGenres(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// MovieInput carries the user-editable fields of a movie.
type MovieInput struct {
	Title       string
	PosterURL   *string
	KinopoiskID *string
	Comment     *string
	Genres      []string
	Year        *int
	Description *string
}

func (s *MovieStore) Create(ctx context.Context, userID string, in MovieInput) (*model.Movie, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (id, user_id, title, poster_url, kinopoisk_id, comment, genres, year, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, in.Title, nullString(in.PosterURL), nullString(in.KinopoiskID),
		nullString(in.Comment), joinGenres(in.Genres), nullInt(in.Year), nullString(in.Description),
	)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return s.get(ctx, id)
}

func (s *MovieStore) get(ctx context.Context, id string) (*model.Movie, error) {
	row := s.db.QueryRowContext(ctx, movieSelect+` WHERE m.id = ?`, id)
	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// List returns movies owned by any of owners, newest first. A non-nil watched
// restricts the list to that state.
func (s *MovieStore) List(ctx context.Context, owners []string, watched *bool) ([]model.Movie, error) {
	where, args := ownerFilter("m.user_id", owners)
	if watched != nil {
		where += ` AND m.watched = ?`
		args = append(args, boolInt(*watched))
	}
	rows, err := s.db.QueryContext(ctx,
		movieSelect+` WHERE `+where+` ORDER BY m.created_at DESC, m.rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

func (s *MovieStore) ToggleWatched(ctx context.Context, id, userID string) (*model.Movie, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE movies SET watched = 1 - watched WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle watched: %w", err)
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

// Review sets the rating and comment of a movie owned by userID. A nil rating
// clears it.
func (s *MovieStore) Review(ctx context.Context, id, userID string, rating *int, comment *string) (*model.Movie, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE movies SET rating = ?, comment = ? WHERE id = ? AND user_id = ?`,
		nullInt(rating), nullString(comment), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("review movie: %w", err)
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

func (s *MovieStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete movie: %w", err)
	}
	return affected(result)
}
