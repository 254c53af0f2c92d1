package handler

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/store"
)

const maxNameLength = 100

type ProfileHandler struct {
	profiles *store.ProfileStore
	pub      Publisher
	logger   *slog.Logger
}

func NewProfileHandler(profiles *store.ProfileStore, pub Publisher, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, pub: pub, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, auth.UserID(r.Context()))
}

// Partner returns the accepted partner's profile.
func (h *ProfileHandler) Partner(w http.ResponseWriter, r *http.Request) {
	partner := auth.PartnerID(r.Context())
	if partner == "" {
		writeError(w, http.StatusNotFound, "no partner")
		return
	}
	h.write(w, r, partner)
}

func (h *ProfileHandler) write(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("get profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"full_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	name := cleanOptional(req.FullName)
	if name != nil && utf8.RuneCountInString(*name) > maxNameLength {
		writeError(w, http.StatusBadRequest, "full name is too long")
		return
	}

	userID := auth.UserID(r.Context())
	profile, err := h.profiles.UpdateFullName(r.Context(), userID, name)
	if err != nil {
		h.logger.Error("update profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	broadcast(h.pub, r, "profile", "updated", userID)
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AvatarURL *string `json:"avatar_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	avatar := cleanOptional(req.AvatarURL)
	if !validWebURL(avatar) {
		writeError(w, http.StatusBadRequest, "avatar_url must be an http(s) URL")
		return
	}

	userID := auth.UserID(r.Context())
	profile, err := h.profiles.UpdateAvatarURL(r.Context(), userID, avatar)
	if err != nil {
		h.logger.Error("update avatar", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update avatar")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	broadcast(h.pub, r, "profile", "updated", userID)
	writeJSON(w, http.StatusOK, profile)
}
