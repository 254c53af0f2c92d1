package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/partnership"
)

type PartnershipHandler struct {
	svc    *partnership.Service
	logger *slog.Logger
}

func NewPartnershipHandler(svc *partnership.Service, logger *slog.Logger) *PartnershipHandler {
	return &PartnershipHandler{svc: svc, logger: logger}
}

// writePartnershipError maps service errors onto HTTP statuses.
func (h *PartnershipHandler) writePartnershipError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, partnership.ErrEmptyEmail),
		errors.Is(err, partnership.ErrSelfInvite),
		errors.Is(err, partnership.ErrAmbiguousEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, partnership.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, partnership.ErrNotFound),
		errors.Is(err, partnership.ErrNoPartnership):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, partnership.ErrAlreadyPartnered),
		errors.Is(err, partnership.ErrAlreadyResponded),
		errors.Is(err, partnership.ErrNotAccepted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("partnership "+op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op+" partnership")
	}
}

func (h *PartnershipHandler) Status(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Status(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writePartnershipError(w, "load", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// History lists the caller's partnerships, including rejected invitations.
func (h *PartnershipHandler) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.History(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.writePartnershipError(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PartnershipHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.Invite(r.Context(), auth.UserID(r.Context()), req.Email)
	if err != nil {
		h.writePartnershipError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PartnershipHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Accept *bool `json:"accept"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Accept == nil {
		writeError(w, http.StatusBadRequest, "accept is required")
		return
	}

	p, err := h.svc.Respond(r.Context(), auth.UserID(r.Context()), id, *req.Accept)
	if err != nil {
		h.writePartnershipError(w, "respond to", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PartnershipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Cancel(r.Context(), auth.UserID(r.Context()), id); err != nil {
		h.writePartnershipError(w, "cancel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PartnershipHandler) Dissolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Dissolve(r.Context(), auth.UserID(r.Context()), id); err != nil {
		h.writePartnershipError(w, "dissolve", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
