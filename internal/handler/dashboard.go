package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/store"
)

type DashboardHandler struct {
	store  *store.DashboardStore
	logger *slog.Logger
}

func NewDashboardHandler(s *store.DashboardStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{store: s, logger: logger}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Counts(r.Context(), auth.Owners(r.Context()))
	if err != nil {
		h.logger.Error("dashboard counts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
