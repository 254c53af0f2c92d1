package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

type ShoppingHandler struct {
	store  *store.ShoppingStore
	pub    Publisher
	logger *slog.Logger
}

func NewShoppingHandler(s *store.ShoppingStore, pub Publisher, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{store: s, pub: pub, logger: logger}
}

type shoppingRequest struct {
	Name           string   `json:"name"`
	EstimatedPrice *float64 `json:"estimated_price"`
}

func (req *shoppingRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.EstimatedPrice != nil && *req.EstimatedPrice < 0 {
		return "estimated_price must not be negative"
	}
	return ""
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("list shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list shopping items")
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.store.Create(r.Context(), auth.UserID(r.Context()), req.Name, req.EstimatedPrice)
	if err != nil {
		h.logger.Error("create shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create shopping item")
		return
	}

	broadcast(h.pub, r, "shopping", "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req shoppingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.store.Update(r.Context(), id, auth.UserID(r.Context()), req.Name, req.EstimatedPrice)
	if err != nil {
		h.logger.Error("update shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update shopping item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}

	broadcast(h.pub, r, "shopping", "updated", id)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.store.TogglePurchased(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("toggle shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle shopping item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}

	broadcast(h.pub, r, "shopping", "updated", id)
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete shopping item")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "shopping item not found")
		return
	}

	broadcast(h.pub, r, "shopping", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearPurchased removes the caller's purchased items. The partner's
// purchased items stay until they clear them.
func (h *ShoppingHandler) ClearPurchased(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.ClearPurchased(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("clear purchased", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear purchased items")
		return
	}
	if n > 0 {
		broadcast(h.pub, r, "shopping", "cleared", "")
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}

func (h *ShoppingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Summary(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("shopping summary", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize shopping list")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
