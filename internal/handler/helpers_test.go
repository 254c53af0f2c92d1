package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dukerupert/pairhouse/internal/auth"
	"github.com/dukerupert/pairhouse/internal/database"
	"github.com/dukerupert/pairhouse/internal/store"
	"github.com/dukerupert/pairhouse/internal/websocket"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupHandlerTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createHandlerTestUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	u, err := store.NewUserStore(db).Create(context.Background(), email, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u.ID
}

// solo is the AuthContext of a user without a partner.
func solo(userID string) auth.AuthContext {
	return auth.AuthContext{UserID: userID, Owners: []string{userID}}
}

// couple is the AuthContext of userID with an accepted partner.
func couple(userID, partnerID string) auth.AuthContext {
	return auth.AuthContext{UserID: userID, PartnerID: partnerID, Owners: []string{userID, partnerID}}
}

// serve routes one request through a mux registered with pattern so that
// path values resolve, with ac as the caller.
func serve(pattern string, h http.HandlerFunc, method, target, body string, ac auth.AuthContext) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.WithAuth(req.Context(), ac))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["error"]
}

type sentMessage struct {
	msg        websocket.Message
	recipients []string
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (p *recordingPublisher) Send(msg websocket.Message, userIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMessage{msg: msg, recipients: userIDs})
}

func (p *recordingPublisher) last(t *testing.T) sentMessage {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sent) == 0 {
		t.Fatal("no message published")
	}
	return p.sent[len(p.sent)-1]
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}
