package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/catalog"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

type MovieHandler struct {
	store   *store.MovieStore
	catalog *catalog.Client
	pub     Publisher
	logger  *slog.Logger
}

func NewMovieHandler(s *store.MovieStore, c *catalog.Client, pub Publisher, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{store: s, catalog: c, pub: pub, logger: logger}
}

// Search looks titles up in the movie catalogue so a hit can prefill Create.
// It accepts ?q= and an optional ?limit= (1-20, default 5).
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSearchLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 20")
			return
		}
		limit = n
	}

	movies, err := h.catalog.Search(r.Context(), query, limit)
	if errors.Is(err, catalog.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, "movie search is not configured")
		return
	}
	if err != nil {
		h.logger.Error("search movies", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, "movie search failed")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// List accepts an optional ?watched=true|false filter.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	var watched *bool
	if v := r.URL.Query().Get("watched"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "watched must be true or false")
			return
		}
		watched = &b
	}

	movies, err := h.store.List(r.Context(), auth.Owners(r.Context()), watched)
	if err != nil {
		h.logger.Error("list movies", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title"`
		PosterURL   *string  `json:"poster_url"`
		KinopoiskID *string  `json:"kinopoisk_id"`
		Comment     *string  `json:"comment"`
		Genres      []string `json:"genres"`
		Year        *int     `json:"year"`
		Description *string  `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	in := store.MovieInput{
		Title:       strings.TrimSpace(req.Title),
		PosterURL:   cleanOptional(req.PosterURL),
		KinopoiskID: cleanOptional(req.KinopoiskID),
		Comment:     cleanOptional(req.Comment),
		Genres:      req.Genres,
		Year:        req.Year,
		Description: cleanOptional(req.Description),
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validWebURL(in.PosterURL) {
		writeError(w, http.StatusBadRequest, "poster_url must be an http(s) URL")
		return
	}
	if in.Year != nil && (*in.Year < 1870 || *in.Year > 2200) {
		writeError(w, http.StatusBadRequest, "year is out of range")
		return
	}

	movie, err := h.store.Create(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		h.logger.Error("create movie", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create movie")
		return
	}

	broadcast(h.pub, r, "movie", "created", movie.ID)
	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	movie, err := h.store.ToggleWatched(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("toggle movie", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle movie")
		return
	}
	if movie == nil {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	broadcast(h.pub, r, "movie", "updated", id)
	writeJSON(w, http.StatusOK, movie)
}

// Review sets the rating (1-10) and comment. A null rating clears it.
func (h *MovieHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 10")
		return
	}

	movie, err := h.store.Review(r.Context(), id, auth.UserID(r.Context()), req.Rating, cleanOptional(req.Comment))
	if err != nil {
		h.logger.Error("review movie", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update movie")
		return
	}
	if movie == nil {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	broadcast(h.pub, r, "movie", "updated", id)
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete movie", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete movie")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}

	broadcast(h.pub, r, "movie", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
