package model

import "time"

type CalendarEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	EventDate string    `json:"event_date"`
	EventTime *string   `json:"event_time"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
