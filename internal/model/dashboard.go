package model

// Dashboard holds the household-wide counters shown on the home screen.
type Dashboard struct {
	OpenTasks       int     `json:"open_tasks"`
	PendingShopping int     `json:"pending_shopping"`
	UnwatchedMovies int     `json:"unwatched_movies"`
	Events          int     `json:"events"`
	OpenWishes      int     `json:"open_wishes"`
	Memories        int     `json:"memories"`
	TotalSaved      float64 `json:"total_saved"`
	TotalTarget     float64 `json:"total_target"`
}
