package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/store"
)

type MemoryHandler struct {
	store  *store.MemoryStore
	pub    Publisher
	logger *slog.Logger
}

func NewMemoryHandler(s *store.MemoryStore, pub Publisher, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{store: s, pub: pub, logger: logger}
}

type memoryRequest struct {
	Content    string  `json:"content"`
	ImageURL   *string `json:"image_url"`
	HappenedAt string  `json:"happened_at"`
}

func (req *memoryRequest) validate() string {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return "content is required"
	}
	req.ImageURL = cleanOptional(req.ImageURL)
	if !validWebURL(req.ImageURL) {
		return "image_url must be an http(s) URL"
	}
	if req.HappenedAt == "" {
		req.HappenedAt = today()
	}
	if !validDate(req.HappenedAt) {
		return "happened_at must be YYYY-MM-DD"
	}
	return ""
}

func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	memories, err := h.store.List(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("list memories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list memories")
		return
	}
	if memories == nil {
		memories = []model.Memory{}
	}
	writeJSON(w, http.StatusOK, memories)
}

func (h *MemoryHandler) Random(w http.ResponseWriter, r *http.Request) {
	memory, err := h.store.Random(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("random memory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load memory")
		return
	}
	if memory == nil {
		writeError(w, http.StatusNotFound, "no memories yet")
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	memory, err := h.store.Create(r.Context(), auth.UserID(r.Context()), req.Content, req.ImageURL, req.HappenedAt)
	if err != nil {
		h.logger.Error("create memory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create memory")
		return
	}

	broadcast(h.pub, r, "memory", "created", memory.ID)
	writeJSON(w, http.StatusCreated, memory)
}

func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req memoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	memory, err := h.store.Update(r.Context(), id, auth.UserID(r.Context()), req.Content, req.ImageURL, req.HappenedAt)
	if err != nil {
		h.logger.Error("update memory", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update memory")
		return
	}
	if memory == nil {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}

	broadcast(h.pub, r, "memory", "updated", id)
	writeJSON(w, http.StatusOK, memory)
}

func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.store.Delete(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("delete memory", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete memory")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}

	broadcast(h.pub, r, "memory", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
