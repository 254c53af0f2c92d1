package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/middleware"
	"github.com/dukerupert/pairhouse/internal/model"
	"github.com/dukerupert/pairhouse/internal/partnership"
	"github.com/dukerupert/pairhouse/internal/store"
)

const sessionMaxAge = 90 * 24 * 60 * 60 // 90 days

type AuthHandler struct {
	authenticator *auth.PasswordAuthenticator
	users         *store.UserStore
	profiles      *store.ProfileStore
	sessions      *store.SessionStore
	tokens        *auth.TokenManager
	households    *partnership.Service
	logger        *slog.Logger
}

func NewAuthHandler(
	authenticator *auth.PasswordAuthenticator,
	users *store.UserStore,
	profiles *store.ProfileStore,
	sessions *store.SessionStore,
	tokens *auth.TokenManager,
	households *partnership.Service,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		users:         users,
		profiles:      profiles,
		sessions:      sessions,
		tokens:        tokens,
		households:    households,
		logger:        logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("register", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) bool {
	sess, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("create session", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return true
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok && ac.SessionID != 0 {
		if err := h.sessions.Delete(r.Context(), ac.SessionID); err != nil {
			h.logger.Error("delete session", "session_id", ac.SessionID, "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	User      *model.User    `json:"user"`
	Profile   *model.Profile `json:"profile"`
	PartnerID *string        `json:"partner_id"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("get user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("get profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	resp := meResponse{User: user, Profile: profile}
	if partner := auth.PartnerID(r.Context()); partner != "" {
		resp.PartnerID = &partner
	}
	writeJSON(w, http.StatusOK, resp)
}

// IssueToken exchanges the current session for a bearer token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil || user == nil {
		h.logger.Error("get user for token", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	token, expires, err := h.tokens.Generate(user.ID, user.Email, user.PasswordHash)
	if err != nil {
		h.logger.Error("generate token", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

// ChangePassword sets a new password and signs out every other session by
// replacing all of the user's sessions with a fresh one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	err := h.authenticator.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusForbidden, "current password is incorrect")
		return
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("change password", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to change password")
		return
	}

	if err := h.sessions.DeleteByUserID(r.Context(), userID); err != nil {
		h.logger.Error("revoke sessions", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to revoke sessions")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil || user == nil {
		h.logger.Error("get user after password change", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	h.logger.Info("password changed", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount removes the caller's account. Their partnership, sessions
// and household rows are removed with it.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.households.Forget(r.Context(), userID); err != nil {
		h.logger.Error("release partnership", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if err := h.users.Delete(r.Context(), userID); err != nil {
		h.logger.Error("delete account", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	h.logger.Info("account deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
