package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

const defaultWishPriority = 2

type WishHandler struct {
	store  *store.WishStore
	pub    Publisher
	logger *slog.Logger
}

func NewWishHandler(s *store.WishStore, pub Publisher, logger *slog.Logger) *WishHandler {
	return &WishHandler{store: s, pub: pub, logger: logger}
}

type wishRequest struct {
	Title    string   `json:"title"`
	Price    *float64 `json:"price"`
	Priority int      `json:"priority"`
	Comment  *string  `json:"comment"`
	ImageURL *string  `json:"image_url"`
	URL      *string  `json:"url"`
}

func (req wishRequest) input() (store.WishInput, string) {
	in := store.WishInput{
		Title:    strings.TrimSpace(req.Title),
		Price:    req.Price,
		Priority: req.Priority,
		Comment:  cleanOptional(req.Comment),
		ImageURL: cleanOptional(req.ImageURL),
		URL:      cleanOptional(req.URL),
	}
	if in.Title == "" {
		return in, "title is required"
	}
	if in.Price != nil && *in.Price < 0 {
		return in, "price must not be negative"
	}
	if in.Priority == 0 {
		in.Priority = defaultWishPriority
	}
	if in.Priority < 1 || in.Priority > 3 {
		return in, "priority must be between 1 and 3"
	}
	if !validWebURL(in.ImageURL) || !validWebURL(in.URL) {
		return in, "links must be http(s) URLs"
	}
	return in, ""
}

func (h *WishHandler) List(w http.ResponseWriter, r *http.Request) {
	wishes, err := h.store.List(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("list wishes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list wishes")
		return
	}
	if wishes == nil {
		wishes = []model.Wish{}
	}
	writeJSON(w, http.StatusOK, wishes)
}

func (h *WishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req wishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, msg := req.input()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	wish, err := h.store.Create(r.Context(), auth.UserID(r.Context()), in)
	if err != nil {
		h.logger.Error("create wish", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create wish")
		return
	}

	broadcast(h.pub, r, "wish", "created", wish.ID)
	writeJSON(w, http.StatusCreated, wish)
}

func (h *WishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req wishRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, msg := req.input()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	wish, err := h.store.Update(r.Context(), id, auth.UserID(r.Context()), in)
	if err != nil {
		h.logger.Error("update wish", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update wish")
		return
	}
	if wish == nil {
		writeError(w, http.StatusNotFound, "wish not found")
		return
	}

	broadcast(h.pub, r, "wish", "updated", id)
	writeJSON(w, http.StatusOK, wish)
}

func (h *WishHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "reserve", h.store.ToggleReserved)
}

func (h *WishHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "purchase", h.store.TogglePurchased)
}

func (h *WishHandler) toggle(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, id, userID string) (*model.Wish, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wish, err := fn(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error(op+" wish", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update wish")
		return
	}
	if wish == nil {
		writeError(w, http.StatusNotFound, "wish not found")
		return
	}

	broadcast(h.pub, r, "wish", "updated", id)
	writeJSON(w, http.StatusOK, wish)
}

func (h *WishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete wish", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete wish")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "wish not found")
		return
	}

	broadcast(h.pub, r, "wish", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
