package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/model"
)

const SessionCookieName = "pairhouse_session"

// Sessions resolves a session cookie token.
type Sessions interface {
	GetByToken(ctx context.Context, token string) (*model.Session, error)
}

// Tokens validates bearer tokens.
type Tokens interface {
	Validate(token string) (*auth.Claims, error)
}

// Users loads the account behind a bearer token.
type Users interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Households computes the visible owner-set for a user.
type Households interface {
	OwnerSet(ctx context.Context, userID string) []string
}

// RequireAuth resolves the caller from the session cookie or an
// Authorization bearer token and populates AuthContext, including the
// caller's visible owner-set. Bearer tokens are rejected once their account
// is deleted or its password changes.
func RequireAuth(sessions Sessions, tokens Tokens, users Users, households Households) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := identify(r, sessions, tokens, users)
			if !ok {
				unauthorized(w)
				return
			}

			ac.Owners = households.OwnerSet(r.Context(), ac.UserID)
			for _, id := range ac.Owners {
				if id != ac.UserID {
					ac.PartnerID = id
				}
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identify(r *http.Request, sessions Sessions, tokens Tokens, users Users) (auth.AuthContext, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokens == nil || users == nil {
			return auth.AuthContext{}, false
		}
		claims, err := tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			return auth.AuthContext{}, false
		}
		user, err := users.GetByID(r.Context(), claims.UserID)
		if err != nil || user == nil || !claims.Current(user.PasswordHash) {
			return auth.AuthContext{}, false
		}
		return auth.AuthContext{UserID: user.ID}, true
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return auth.AuthContext{}, false
	}
	sess, err := sessions.GetByToken(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return auth.AuthContext{}, false
	}
	return auth.AuthContext{UserID: sess.UserID, SessionID: sess.ID}, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
