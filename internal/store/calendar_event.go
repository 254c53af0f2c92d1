package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/pairhouse/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.CalendarEvent, error) {
	var e model.CalendarEvent
	var eventTime sql.NullString
	if err := scanner.Scan(&e.ID, &e.UserID, &e.Title, &e.EventDate, &eventTime, &e.Color, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.EventTime = stringPtr(eventTime)
	return &e, nil
}

const eventCols = `id, user_id, title, event_date, event_time, color, created_at`

func (s *EventStore) Create(ctx context.Context, userID, title, date string, eventTime *string, color string) (*model.CalendarEvent, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, user_id, title, event_date, event_time, color) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, title, date, nullString(eventTime), color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert calendar event: %w", err)
	}
	return s.get(ctx, id)
}

func (s *EventStore) get(ctx context.Context, id string) (*model.CalendarEvent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query calendar event: %w", err)
	}
	return e, nil
}

// List returns events owned by any of owners ordered by date and time.
// from and to are inclusive YYYY-MM-DD bounds; an empty bound is open.
func (s *EventStore) List(ctx context.Context, owners []string, from, to string) ([]model.CalendarEvent, error) {
	where, args := ownerFilter("user_id", owners)
	if from != "" {
		where += ` AND event_date >= ?`
		args = append(args, from)
	}
	if to != "" {
		where += ` AND event_date <= ?`
		args = append(args, to)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events WHERE `+where+` ORDER BY event_date ASC, event_time ASC, rowid ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *EventStore) Update(ctx context.Context, id, userID, title, date string, eventTime *string, color string) (*model.CalendarEvent, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, event_date = ?, event_time = ?, color = ? WHERE id = ? AND user_id = ?`,
		title, date, nullString(eventTime), color, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update calendar event: %w", err)
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

func (s *EventStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete calendar event: %w", err)
	}
	return affected(result)
}
