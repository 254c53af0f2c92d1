package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/websocket"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Publisher delivers live-update messages to the given users' clients.
type Publisher interface {
	Send(msg websocket.Message, userIDs ...string)
}

// broadcast notifies every member of the caller's household.
func broadcast(pub Publisher, r *http.Request, entity, action, id string) {
	if pub == nil {
		return
	}
	pub.Send(websocket.NewMessage(entity, action, id, nil), auth.Owners(r.Context())...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

// pathID returns the {id} path value in canonical form, writing a 400 when it
// is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return id.String(), true
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

func today() string {
	return time.Now().Format(dateLayout)
}

// cleanOptional trims s and maps blank values to nil.
func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// validWebURL accepts absolute http and https URLs.
func validWebURL(s *string) bool {
	if s == nil {
		return true
	}
	u, err := url.Parse(*s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
