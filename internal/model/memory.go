package model

import "time"

type Memory struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url"`
	HappenedAt string    `json:"happened_at"`
	CreatedAt  time.Time `json:"created_at"`
}
