package model

import "time"

type Movie struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	PosterURL   *string   `json:"poster_url"`
	KinopoiskID *string   `json:"kinopoisk_id"`
	Comment     *string   `json:"comment"`
	Watched     bool      `json:"watched"`
	Rating      *int      `json:"rating"`
	Genres      []string  `json:"genres"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	AddedBy     Author    `json:"added_by"`
}

// Author is the profile shown next to a row a partner can see.
type Author struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}
