package model

import "time"

type Wish struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Price     *float64  `json:"price"`
	Priority  int       `json:"priority"`
	Comment   *string   `json:"comment"`
	ImageURL  *string   `json:"image_url"`
	URL       *string   `json:"url"`
	Reserved  bool      `json:"reserved"`
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"created_at"`
}
